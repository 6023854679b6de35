package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one lifecycle test: a user, a scripted generator, and
// an ordered list of engine operations with optional expectations.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// User is the username loaded before the steps run.
	User string `yaml:"user"`

	// Generator scripts the plan generator's behavior.
	Generator GeneratorScript `yaml:"generator,omitempty"`

	// Steps are the engine operations, executed in order.
	Steps []Step `yaml:"steps"`
}

// GeneratorScript controls what the scripted generator returns.
type GeneratorScript struct {
	// Outcomes are consumed one per generate step: "ok" or "fail".
	// Steps beyond the list default to "ok".
	Outcomes []string `yaml:"outcomes,omitempty"`

	// Days overrides the generated plan. When empty the generator builds
	// one default day per free day in the profile.
	Days []ScriptedDay `yaml:"days,omitempty"`
}

// ScriptedDay is one day of a scripted plan.
type ScriptedDay struct {
	Day      string `yaml:"day"`
	Focus    string `yaml:"focus,omitempty"`
	Calories int    `yaml:"calories,omitempty"`
}

// Step is one engine operation.
type Step struct {
	// Op selects the operation:
	// profile, generate, start_edit, edit, commit_edit, discard_edit,
	// log, reset, set_section.
	Op string `yaml:"op"`

	// Profile patches the intake profile (op: profile).
	Profile *ProfilePatch `yaml:"profile,omitempty"`

	// Day is the zero-based day index to log (op: log).
	Day *int `yaml:"day,omitempty"`

	// Edit is the draft mutation to apply (op: edit).
	Edit *EditSpec `yaml:"edit,omitempty"`

	// Section is the target section (op: set_section).
	Section string `yaml:"section,omitempty"`

	// Expect validates the step outcome. Nil means "must succeed".
	Expect *Expect `yaml:"expect,omitempty"`
}

// ProfilePatch overrides profile fields; nil fields keep their value.
type ProfilePatch struct {
	Name           *string  `yaml:"name,omitempty"`
	Weight         *string  `yaml:"weight,omitempty"`
	Height         *string  `yaml:"height,omitempty"`
	FreeDays       []string `yaml:"free_days,omitempty"`
	Gender         *string  `yaml:"gender,omitempty"`
	FitnessLevel   *string  `yaml:"fitness_level,omitempty"`
	Goal           *string  `yaml:"goal,omitempty"`
	Equipment      *string  `yaml:"equipment,omitempty"`
	MaxSessionTime *string  `yaml:"max_session_time,omitempty"`
}

// EditSpec is one typed draft mutation.
type EditSpec struct {
	// Kind selects the operation: set_focus, set_time, set_group,
	// set_exercise, add_exercise, delete_exercise.
	Kind     string `yaml:"kind"`
	Day      int    `yaml:"day"`
	Group    int    `yaml:"group,omitempty"`
	Exercise int    `yaml:"exercise,omitempty"`
	Field    string `yaml:"field,omitempty"`
	Value    string `yaml:"value,omitempty"`
}

// Expect validates the outcome of a step. All set fields must match.
type Expect struct {
	// Error is the expected state-error code; empty means success.
	Error string `yaml:"error,omitempty"`

	Mode    string `yaml:"mode,omitempty"`
	Section string `yaml:"section,omitempty"`

	HasPlan       *bool    `yaml:"has_plan,omitempty"`
	WeekComplete  *bool    `yaml:"week_complete,omitempty"`
	CompletedDays []string `yaml:"completed_days,omitempty"`

	// Log-specific expectations (op: log).
	AlreadyCompleted *bool `yaml:"already_completed,omitempty"`
	BecameComplete   *bool `yaml:"became_complete,omitempty"`
}

// Step op constants.
const (
	OpProfile     = "profile"
	OpGenerate    = "generate"
	OpStartEdit   = "start_edit"
	OpEdit        = "edit"
	OpCommitEdit  = "commit_edit"
	OpDiscardEdit = "discard_edit"
	OpLog         = "log"
	OpReset       = "reset"
	OpSetSection  = "set_section"
)

var validOps = map[string]bool{
	OpProfile:     true,
	OpGenerate:    true,
	OpStartEdit:   true,
	OpEdit:        true,
	OpCommitEdit:  true,
	OpDiscardEdit: true,
	OpLog:         true,
	OpReset:       true,
	OpSetSection:  true,
}

var validEditKinds = map[string]bool{
	"set_focus":       true,
	"set_time":        true,
	"set_group":       true,
	"set_exercise":    true,
	"add_exercise":    true,
	"delete_exercise": true,
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly instead of silently
// weakening a scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.User == "" {
		return fmt.Errorf("user is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, outcome := range s.Generator.Outcomes {
		if outcome != "ok" && outcome != "fail" {
			return fmt.Errorf("generator.outcomes: unknown outcome %q (ok|fail)", outcome)
		}
	}

	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		switch step.Op {
		case OpProfile:
			if step.Profile == nil {
				return fmt.Errorf("steps[%d]: profile op requires a profile patch", i)
			}
		case OpLog:
			if step.Day == nil {
				return fmt.Errorf("steps[%d]: log op requires a day index", i)
			}
		case OpEdit:
			if step.Edit == nil {
				return fmt.Errorf("steps[%d]: edit op requires an edit spec", i)
			}
			if !validEditKinds[step.Edit.Kind] {
				return fmt.Errorf("steps[%d]: unknown edit kind %q", i, step.Edit.Kind)
			}
		case OpSetSection:
			if step.Section == "" {
				return fmt.Errorf("steps[%d]: set_section op requires a section", i)
			}
		}
	}
	return nil
}
