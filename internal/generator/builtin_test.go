package generator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitweek/fitweek/internal/plan"
)

func builtin(t *testing.T) *Builtin {
	t.Helper()
	b, err := NewBuiltin()
	require.NoError(t, err, "embedded catalog must parse and validate")
	return b
}

func baseProfile(days ...string) plan.Profile {
	return plan.Profile{
		Name:           "alex",
		Weight:         "80",
		Height:         "180",
		FreeDays:       days,
		FitnessLevel:   "intermediate",
		Goal:           "strength",
		Equipment:      "barbell, dumbbells",
		MaxSessionTime: "60",
	}
}

func TestNewBuiltin_CatalogValidates(t *testing.T) {
	b := builtin(t)
	assert.NotEmpty(t, b.catalog.Groups)
}

func TestGenerate_OneDayPerFreeDay(t *testing.T) {
	b := builtin(t)

	week, err := b.Generate(context.Background(), baseProfile("Monday", "Wednesday", "Friday"), 24.7)
	require.NoError(t, err)

	require.Len(t, week.Days, 3)
	assert.Equal(t, "Monday", week.Days[0].Day)
	assert.Equal(t, "Wednesday", week.Days[1].Day)
	assert.Equal(t, "Friday", week.Days[2].Day)
	assert.Empty(t, week.CompletedDays)
	assert.NotNil(t, week.CompletedDays)

	for _, day := range week.Days {
		assert.NotEmpty(t, day.MuscleGroups, "day %s has muscle groups", day.Day)
		assert.Positive(t, day.CaloriesBurned)
		assert.NotEmpty(t, day.ApproximateTime)
		for _, group := range day.MuscleGroups {
			assert.NotEmpty(t, group.Exercises, "group %s on %s", group.Name, day.Day)
		}
	}
	assert.Positive(t, week.TotalWeeklyCaloriesBurned)
	assert.NotEmpty(t, week.TotalWeeklyTime)
	assert.Contains(t, week.Summary, "3-day")
}

func TestGenerate_EmptyFreeDaysFails(t *testing.T) {
	b := builtin(t)

	_, err := b.Generate(context.Background(), baseProfile(), 24.7)
	assert.Error(t, err)
}

func TestGenerate_Deterministic(t *testing.T) {
	b := builtin(t)
	profile := baseProfile("Monday", "Thursday")

	first, err := b.Generate(context.Background(), profile, 24.7)
	require.NoError(t, err)
	second, err := b.Generate(context.Background(), profile, 24.7)
	require.NoError(t, err)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.Equal(t, string(firstJSON), string(secondJSON),
		"same profile and metric must produce the same plan")
}

func TestGenerate_SplitFollowsDayCount(t *testing.T) {
	b := builtin(t)

	week, err := b.Generate(context.Background(), baseProfile("Mon", "Tue"), 24.7)
	require.NoError(t, err)
	for _, d := range week.Days {
		assert.Equal(t, "Full Body", d.Focus, "1-3 days train full body")
	}

	week, err = b.Generate(context.Background(), baseProfile("Mon", "Tue", "Thu", "Fri"), 24.7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Upper Body", "Lower Body", "Upper Body", "Lower Body"},
		[]string{week.Days[0].Focus, week.Days[1].Focus, week.Days[2].Focus, week.Days[3].Focus})

	week, err = b.Generate(context.Background(), baseProfile("Mon", "Tue", "Wed", "Thu", "Fri"), 24.7)
	require.NoError(t, err)
	assert.Equal(t, "Push", week.Days[0].Focus)
	assert.Equal(t, "Pull", week.Days[1].Focus)
	assert.Equal(t, "Legs", week.Days[2].Focus)
	assert.Equal(t, "Push", week.Days[3].Focus, "the split cycles past its length")
}

func TestGenerate_RepSchemeFollowsGoal(t *testing.T) {
	b := builtin(t)

	strength := baseProfile("Monday")
	strength.Goal = "build strength"
	week, err := b.Generate(context.Background(), strength, 24.7)
	require.NoError(t, err)
	ex := week.Days[0].MuscleGroups[0].Exercises[0]
	assert.Equal(t, "5", ex.Sets)
	assert.Equal(t, "5", ex.Reps)

	muscle := baseProfile("Monday")
	muscle.Goal = "muscle gain"
	week, err = b.Generate(context.Background(), muscle, 24.7)
	require.NoError(t, err)
	ex = week.Days[0].MuscleGroups[0].Exercises[0]
	assert.Equal(t, "4", ex.Sets)
	assert.Equal(t, "10", ex.Reps)

	general := baseProfile("Monday")
	general.Goal = "stay active"
	week, err = b.Generate(context.Background(), general, 24.7)
	require.NoError(t, err)
	ex = week.Days[0].MuscleGroups[0].Exercises[0]
	assert.Equal(t, "3", ex.Sets)
	assert.Equal(t, "12", ex.Reps)
}

func TestGenerate_EquipmentFilter(t *testing.T) {
	b := builtin(t)

	bodyweightOnly := baseProfile("Monday")
	bodyweightOnly.Equipment = "none"
	week, err := b.Generate(context.Background(), bodyweightOnly, 24.7)
	require.NoError(t, err)

	// No barbell movement may appear for a user without a barbell.
	for _, day := range week.Days {
		for _, group := range day.MuscleGroups {
			for _, ex := range group.Exercises {
				assert.NotEqual(t, "Barbell Bench Press", ex.Name)
				assert.NotEqual(t, "Barbell Back Squat", ex.Name)
			}
		}
	}
}

func TestGenerate_LevelFilterFallsBackRatherThanEmpty(t *testing.T) {
	b := builtin(t)

	beginner := baseProfile("Monday", "Tue", "Wed", "Thu", "Fri")
	beginner.FitnessLevel = "beginner"
	beginner.Equipment = ""
	week, err := b.Generate(context.Background(), beginner, 24.7)
	require.NoError(t, err)

	// Even groups whose eligible list would be empty still produce
	// exercises via the unfiltered fallback.
	for _, day := range week.Days {
		for _, group := range day.MuscleGroups {
			assert.NotEmpty(t, group.Exercises, "group %s on %s", group.Name, day.Day)
		}
	}
}

func TestGenerate_SessionTimeScalesVolume(t *testing.T) {
	b := builtin(t)

	short := baseProfile("Monday")
	short.MaxSessionTime = "30"
	shortWeek, err := b.Generate(context.Background(), short, 24.7)
	require.NoError(t, err)

	long := baseProfile("Monday")
	long.MaxSessionTime = "90 minutes"
	longWeek, err := b.Generate(context.Background(), long, 24.7)
	require.NoError(t, err)

	countExercises := func(w *plan.WeekPlan) int {
		n := 0
		for _, d := range w.Days {
			for _, g := range d.MuscleGroups {
				n += len(g.Exercises)
			}
		}
		return n
	}
	assert.Greater(t, countExercises(longWeek), countExercises(shortWeek))
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"60", 60},
		{"60 min", 60},
		{"about 45 minutes", 45},
		{"", defaultSessionMinutes},
		{"plenty", defaultSessionMinutes},
		{"0", defaultSessionMinutes},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseMinutes(tt.in), "parseMinutes(%q)", tt.in)
	}
}
