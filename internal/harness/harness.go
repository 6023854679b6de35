package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/fitweek/fitweek/internal/engine"
	"github.com/fitweek/fitweek/internal/plan"
	"github.com/fitweek/fitweek/internal/store"
	"github.com/fitweek/fitweek/internal/testutil"
)

// Result is the outcome of running one scenario: the recorded trace plus
// any expectation mismatches.
type Result struct {
	ScenarioName string
	Trace        []TraceEvent
	Errors       []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// AddError records an expectation mismatch.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// TraceEvent is the observable state after one step. Field values come
// from the engine, never from the scenario's expectations.
type TraceEvent struct {
	Seq           int      `json:"seq"`
	Op            string   `json:"op"`
	Error         string   `json:"error,omitempty"`
	Mode          string   `json:"mode"`
	Section       string   `json:"section"`
	HasPlan       bool     `json:"has_plan"`
	ActiveDay     int      `json:"active_day"`
	Editing       bool     `json:"editing,omitempty"`
	CompletedDays []string `json:"completed_days,omitempty"`

	// Log-step outcome.
	DayName          string `json:"day_name,omitempty"`
	AlreadyCompleted bool   `json:"already_completed,omitempty"`
	BecameComplete   bool   `json:"became_complete,omitempty"`
	WeekComplete     bool   `json:"week_complete,omitempty"`
}

// harnessStart is the fixed clock epoch for every scenario run.
var harnessStart = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

// Run executes a scenario against a fresh engine and in-memory database.
//
// Determinism comes from the fixed clock, the fixed token source, and the
// scripted generator; running the same scenario twice yields an identical
// trace.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	gen := &scriptedGenerator{script: scenario.Generator}
	eng := engine.New(st, gen,
		engine.WithClock(testutil.NewFixedClock(harnessStart, time.Minute)),
		engine.WithTokenSource(testutil.NewFixedTokenSource("flow")),
	)

	ctx := context.Background()
	if err := eng.LoadUser(ctx, scenario.User); err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", scenario.User, err)
	}

	result := &Result{ScenarioName: scenario.Name}
	for i, step := range scenario.Steps {
		ev := executeStep(ctx, eng, step)
		ev.Seq = i + 1
		ev.Op = step.Op
		fillStatus(&ev, eng)
		result.Trace = append(result.Trace, ev)

		checkExpect(result, i, step.Expect, ev)
	}

	// Drain pending persistence writes before the database closes.
	eng.Close()
	_ = eng.Run(ctx)

	return result, nil
}

// executeStep performs one engine operation and records its outcome.
func executeStep(ctx context.Context, eng *engine.Engine, step Step) TraceEvent {
	var ev TraceEvent
	var err error

	switch step.Op {
	case OpProfile:
		p := eng.CurrentProfile()
		applyPatch(&p, step.Profile)
		err = eng.UpdateProfile(p)

	case OpGenerate:
		err = eng.RequestGeneration(ctx)

	case OpStartEdit:
		if !eng.StartEdit() {
			err = &engine.StateError{Code: engine.ErrCodeNoPlan, Message: "no plan to edit"}
		}

	case OpEdit:
		err = eng.Edit(editOp(step.Edit))

	case OpCommitEdit:
		err = eng.CommitEdit()

	case OpDiscardEdit:
		err = eng.DiscardEdit()

	case OpLog:
		var res engine.LogResult
		res, err = eng.LogWorkout(ctx, *step.Day)
		if err == nil {
			ev.DayName = res.Entry.DayName
			ev.AlreadyCompleted = res.AlreadyCompleted
			ev.BecameComplete = res.BecameComplete
		}

	case OpReset:
		err = eng.ResetForNewPlan()

	case OpSetSection:
		err = eng.SetSection(engine.Section(step.Section))
	}

	if err != nil {
		ev.Error = string(engine.CodeOf(err))
		if ev.Error == "" {
			ev.Error = err.Error()
		}
	}
	return ev
}

// fillStatus copies the post-step engine state into the event.
func fillStatus(ev *TraceEvent, eng *engine.Engine) {
	status := eng.Status()
	ev.Mode = string(status.Mode)
	ev.Section = string(status.Section)
	ev.HasPlan = status.HasPlan
	ev.ActiveDay = status.ActiveDay
	ev.Editing = status.Editing
	ev.WeekComplete = status.WeekComplete
	if committed := eng.Committed(); committed != nil {
		ev.CompletedDays = committed.CompletedDays
	}
}

// checkExpect validates one step's expectations against its trace event.
func checkExpect(result *Result, index int, expect *Expect, ev TraceEvent) {
	if expect == nil {
		if ev.Error != "" {
			result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error %s", index, ev.Op, ev.Error))
		}
		return
	}

	if expect.Error != ev.Error {
		result.AddError(fmt.Sprintf("steps[%d] %s: error = %q, want %q", index, ev.Op, ev.Error, expect.Error))
	}
	if expect.Mode != "" && expect.Mode != ev.Mode {
		result.AddError(fmt.Sprintf("steps[%d] %s: mode = %q, want %q", index, ev.Op, ev.Mode, expect.Mode))
	}
	if expect.Section != "" && expect.Section != ev.Section {
		result.AddError(fmt.Sprintf("steps[%d] %s: section = %q, want %q", index, ev.Op, ev.Section, expect.Section))
	}
	if expect.HasPlan != nil && *expect.HasPlan != ev.HasPlan {
		result.AddError(fmt.Sprintf("steps[%d] %s: has_plan = %v, want %v", index, ev.Op, ev.HasPlan, *expect.HasPlan))
	}
	if expect.WeekComplete != nil && *expect.WeekComplete != ev.WeekComplete {
		result.AddError(fmt.Sprintf("steps[%d] %s: week_complete = %v, want %v", index, ev.Op, ev.WeekComplete, *expect.WeekComplete))
	}
	if expect.CompletedDays != nil && !equalStrings(expect.CompletedDays, ev.CompletedDays) {
		result.AddError(fmt.Sprintf("steps[%d] %s: completed_days = %v, want %v", index, ev.Op, ev.CompletedDays, expect.CompletedDays))
	}
	if expect.AlreadyCompleted != nil && *expect.AlreadyCompleted != ev.AlreadyCompleted {
		result.AddError(fmt.Sprintf("steps[%d] %s: already_completed = %v, want %v", index, ev.Op, ev.AlreadyCompleted, *expect.AlreadyCompleted))
	}
	if expect.BecameComplete != nil && *expect.BecameComplete != ev.BecameComplete {
		result.AddError(fmt.Sprintf("steps[%d] %s: became_complete = %v, want %v", index, ev.Op, ev.BecameComplete, *expect.BecameComplete))
	}
}

// applyPatch overrides profile fields set in the patch.
func applyPatch(p *plan.Profile, patch *ProfilePatch) {
	if patch == nil {
		return
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.FreeDays != nil {
		p.FreeDays = patch.FreeDays
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.FitnessLevel != nil {
		p.FitnessLevel = *patch.FitnessLevel
	}
	if patch.Goal != nil {
		p.Goal = *patch.Goal
	}
	if patch.Equipment != nil {
		p.Equipment = *patch.Equipment
	}
	if patch.MaxSessionTime != nil {
		p.MaxSessionTime = *patch.MaxSessionTime
	}
}

// editOp translates an EditSpec into a typed plan operation.
func editOp(spec *EditSpec) plan.EditOp {
	switch spec.Kind {
	case "set_focus":
		return plan.SetDayFocus{Day: spec.Day, Focus: spec.Value}
	case "set_time":
		return plan.SetDayTime{Day: spec.Day, Time: spec.Value}
	case "set_group":
		return plan.SetGroupName{Day: spec.Day, Group: spec.Group, Name: spec.Value}
	case "set_exercise":
		return plan.SetExerciseField{
			Day: spec.Day, Group: spec.Group, Exercise: spec.Exercise,
			Field: plan.ExerciseField(spec.Field), Value: spec.Value,
		}
	case "add_exercise":
		return plan.AddExercise{Day: spec.Day, Group: spec.Group}
	default: // delete_exercise; validated at load time
		return plan.DeleteExercise{Day: spec.Day, Group: spec.Group, Exercise: spec.Exercise}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// scriptedGenerator returns scripted outcomes in call order.
type scriptedGenerator struct {
	script GeneratorScript
	calls  int
}

// Generate consumes the next scripted outcome. Calls beyond the outcome
// list succeed. On success the scripted days are returned, or one default
// day per free day when no days were scripted.
func (g *scriptedGenerator) Generate(_ context.Context, profile plan.Profile, bmi float64) (*plan.WeekPlan, error) {
	outcome := "ok"
	if g.calls < len(g.script.Outcomes) {
		outcome = g.script.Outcomes[g.calls]
	}
	g.calls++

	if outcome == "fail" {
		return nil, fmt.Errorf("scripted generation failure")
	}

	days := g.script.Days
	if len(days) == 0 {
		for _, d := range plan.NormalizeFreeDays(profile.FreeDays) {
			days = append(days, ScriptedDay{Day: d, Focus: "Full Body", Calories: 100})
		}
	}

	week := &plan.WeekPlan{
		Summary:       fmt.Sprintf("scripted %d-day plan (BMI %.1f)", len(days), bmi),
		CompletedDays: []string{},
	}
	for _, d := range days {
		focus := d.Focus
		if focus == "" {
			focus = "Full Body"
		}
		calories := d.Calories
		if calories == 0 {
			calories = 100
		}
		week.Days = append(week.Days, plan.PlanDay{
			Day:             d.Day,
			Focus:           focus,
			ApproximateTime: "45 minutes",
			CaloriesBurned:  calories,
			MuscleGroups: []plan.MuscleGroup{{
				Name: "Main",
				Exercises: []plan.Exercise{{
					Name: "Scripted Exercise", Sets: "3", Reps: "10",
					Description:   "Fixed movement for deterministic traces.",
					TargetMuscles: []string{"Full body"},
				}},
			}},
		})
		week.TotalWeeklyCaloriesBurned += calories
	}
	week.TotalWeeklyTime = fmt.Sprintf("%d minutes", 45*len(week.Days))
	return week, nil
}
