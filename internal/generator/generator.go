// Package generator provides plan generator adapters: a deterministic
// builtin generator driven by an embedded exercise catalog, and a remote
// adapter that delegates to an HTTP endpoint.
//
// The contract is intentionally loose: any error means "generation failed"
// and the engine surfaces one generic message. There is no structured
// error taxonomy at this boundary.
package generator

import (
	"context"

	"github.com/fitweek/fitweek/internal/plan"
)

// Generator produces a weekly plan from a profile and its derived BMI.
// Mirrors engine.PlanGenerator; both adapters satisfy it.
type Generator interface {
	Generate(ctx context.Context, profile plan.Profile, bmi float64) (*plan.WeekPlan, error)
}
