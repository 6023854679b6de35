package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/ against its golden
// trace.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, "loading %s", path)

		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario)
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "happy_path.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRunReportsExpectationMismatch(t *testing.T) {
	hasPlan := true
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "a wrong expectation shows up as a result error",
		User:        "alex",
		Steps: []Step{
			{
				Op:      OpProfile,
				Profile: &ProfilePatch{FreeDays: []string{"Monday"}},
				// A profile update never installs a plan.
				Expect: &Expect{HasPlan: &hasPlan},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "has_plan")
}

func TestRunFlagsUnexpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected-error",
		Description: "a failing step without an expect clause fails the scenario",
		User:        "alex",
		Steps: []Step{
			// No free days selected, so generation is rejected.
			{Op: OpGenerate},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "VALIDATION")
}

func TestScriptedGeneratorOutcomes(t *testing.T) {
	weekdays := []string{"Monday", "Tuesday"}
	scenario := &Scenario{
		Name:        "outcomes",
		Description: "outcomes are consumed per generator call, then default to ok",
		User:        "alex",
		Generator:   GeneratorScript{Outcomes: []string{"fail"}},
		Steps: []Step{
			{Op: OpProfile, Profile: &ProfilePatch{FreeDays: weekdays}},
			{Op: OpGenerate, Expect: &Expect{Error: "GENERATION_FAILED"}},
			{Op: OpGenerate},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)

	final := result.Trace[len(result.Trace)-1]
	assert.True(t, final.HasPlan)
}

func TestScriptedDaysOverridePlan(t *testing.T) {
	scenario := &Scenario{
		Name:        "scripted-days",
		Description: "scripted days replace the default free-day plan",
		User:        "alex",
		Generator: GeneratorScript{
			Days: []ScriptedDay{
				{Day: "Saturday", Focus: "Long session", Calories: 500},
			},
		},
		Steps: []Step{
			{Op: OpProfile, Profile: &ProfilePatch{FreeDays: []string{"Monday"}}},
			{Op: OpGenerate},
			{Op: OpLog, Day: intp(0), Expect: &Expect{
				CompletedDays:  []string{"Saturday"},
				BecameComplete: boolp(true),
			}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)
	assert.Equal(t, "Saturday", result.Trace[2].DayName)
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }
