package plan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editablePlan() *WeekPlan {
	return &WeekPlan{
		Days: []PlanDay{
			{
				Day:   "Monday",
				Focus: "Push",
				MuscleGroups: []MuscleGroup{
					{
						Name: "Chest",
						Exercises: []Exercise{
							{Name: "Push-Up", Sets: "3", Reps: "12", Description: "Standard push-up.", TargetMuscles: []string{"Chest", "Triceps"}},
							{Name: "Bench Press", Sets: "4", Reps: "8", Description: "Barbell bench press.", TargetMuscles: []string{"Chest"}},
						},
					},
					{
						Name: "Shoulders",
						Exercises: []Exercise{
							{Name: "Overhead Press", Sets: "3", Reps: "10", TargetMuscles: []string{"Shoulders"}},
						},
					},
				},
			},
			{
				Day:   "Thursday",
				Focus: "Pull",
				MuscleGroups: []MuscleGroup{
					{Name: "Back", Exercises: []Exercise{{Name: "Row", Sets: "3", Reps: "10"}}},
				},
			},
		},
	}
}

// snapshot serializes a plan for byte-for-byte comparison.
func snapshot(t *testing.T, w *WeekPlan) string {
	t.Helper()
	data, err := json.Marshal(w)
	require.NoError(t, err)
	return string(data)
}

func TestApply_SetExerciseField(t *testing.T) {
	w := editablePlan()

	err := Apply(w, SetExerciseField{Day: 0, Group: 0, Exercise: 1, Field: FieldReps, Value: "6"})
	require.NoError(t, err)
	assert.Equal(t, "6", w.Days[0].MuscleGroups[0].Exercises[1].Reps)

	err = Apply(w, SetExerciseField{Day: 0, Group: 1, Exercise: 0, Field: FieldName, Value: "Arnold Press"})
	require.NoError(t, err)
	assert.Equal(t, "Arnold Press", w.Days[0].MuscleGroups[1].Exercises[0].Name)
}

func TestApply_SetExerciseField_OutOfRange(t *testing.T) {
	w := editablePlan()
	before := snapshot(t, w)

	cases := []SetExerciseField{
		{Day: 5, Group: 0, Exercise: 0, Field: FieldName, Value: "x"},
		{Day: 0, Group: 9, Exercise: 0, Field: FieldName, Value: "x"},
		{Day: 0, Group: 0, Exercise: 9, Field: FieldName, Value: "x"},
		{Day: -1, Group: 0, Exercise: 0, Field: FieldName, Value: "x"},
		{Day: 0, Group: 0, Exercise: 0, Field: "bogus", Value: "x"},
	}
	for _, op := range cases {
		err := Apply(w, op)
		assert.ErrorIs(t, err, ErrOutOfRange)
	}

	assert.Equal(t, before, snapshot(t, w), "failed edits must leave the plan unchanged")
}

func TestApply_SetGroupNameFocusTime(t *testing.T) {
	w := editablePlan()

	require.NoError(t, Apply(w, SetGroupName{Day: 0, Group: 0, Name: "Chest & Triceps"}))
	require.NoError(t, Apply(w, SetDayFocus{Day: 1, Focus: "Back width"}))
	require.NoError(t, Apply(w, SetDayTime{Day: 1, Time: "50 minutes"}))

	assert.Equal(t, "Chest & Triceps", w.Days[0].MuscleGroups[0].Name)
	assert.Equal(t, "Back width", w.Days[1].Focus)
	assert.Equal(t, "50 minutes", w.Days[1].ApproximateTime)

	assert.ErrorIs(t, Apply(w, SetDayFocus{Day: 7, Focus: "x"}), ErrOutOfRange)
	assert.ErrorIs(t, Apply(w, SetGroupName{Day: 0, Group: 7, Name: "x"}), ErrOutOfRange)
}

func TestApply_AddExercise(t *testing.T) {
	w := editablePlan()

	require.NoError(t, Apply(w, AddExercise{Day: 0, Group: 1}))

	exs := w.Days[0].MuscleGroups[1].Exercises
	require.Len(t, exs, 2)
	added := exs[1]
	assert.Equal(t, "New Exercise", added.Name)
	assert.Equal(t, "3", added.Sets)
	assert.Equal(t, "10", added.Reps)
	assert.Len(t, added.TargetMuscles, 2)

	assert.ErrorIs(t, Apply(w, AddExercise{Day: 0, Group: 5}), ErrOutOfRange)
}

func TestApply_DeleteExercise(t *testing.T) {
	w := editablePlan()

	require.NoError(t, Apply(w, DeleteExercise{Day: 0, Group: 0, Exercise: 0}))

	exs := w.Days[0].MuscleGroups[0].Exercises
	require.Len(t, exs, 1)
	assert.Equal(t, "Bench Press", exs[0].Name)
}

func TestApply_DeleteExercise_OutOfRangeIsSilentNoOp(t *testing.T) {
	w := editablePlan()
	before := snapshot(t, w)

	for _, op := range []DeleteExercise{
		{Day: 9, Group: 0, Exercise: 0},
		{Day: 0, Group: 9, Exercise: 0},
		{Day: 0, Group: 0, Exercise: 9},
		{Day: -1, Group: -1, Exercise: -1},
	} {
		assert.NoError(t, Apply(w, op), "out-of-range delete is a no-op, not an error")
	}

	assert.Equal(t, before, snapshot(t, w))
}

func TestApply_NilPlan(t *testing.T) {
	assert.ErrorIs(t, Apply(nil, SetDayFocus{Day: 0, Focus: "x"}), ErrOutOfRange)
}
