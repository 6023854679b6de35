package plan

import "errors"

// ErrOutOfRange is returned by edit operations whose target coordinates do
// not exist in the plan. The plan is left unchanged.
var ErrOutOfRange = errors.New("edit target out of range")

// ExerciseField names a scalar field of an Exercise addressable by
// SetExerciseField. The set is closed: edits are typed commands, not
// dynamic path walks.
type ExerciseField string

const (
	FieldName        ExerciseField = "name"
	FieldSets        ExerciseField = "sets"
	FieldReps        ExerciseField = "reps"
	FieldDescription ExerciseField = "description"
)

// ValidExerciseField reports whether f is one of the addressable fields.
func ValidExerciseField(f ExerciseField) bool {
	switch f {
	case FieldName, FieldSets, FieldReps, FieldDescription:
		return true
	}
	return false
}

// EditOp is one typed mutation of a draft plan.
//
// Apply is the only entry point; each operation either fully applies or
// leaves the plan unchanged. Operations never mutate anything outside the
// plan they are applied to.
type EditOp interface {
	apply(*WeekPlan) error
}

// Apply applies a single edit operation to the plan.
// On ErrOutOfRange the plan is guaranteed unchanged.
func Apply(w *WeekPlan, op EditOp) error {
	if w == nil {
		return ErrOutOfRange
	}
	return op.apply(w)
}

// SetExerciseField replaces one scalar field of one exercise.
type SetExerciseField struct {
	Day, Group, Exercise int
	Field                ExerciseField
	Value                string
}

func (op SetExerciseField) apply(w *WeekPlan) error {
	ex, err := w.exerciseAt(op.Day, op.Group, op.Exercise)
	if err != nil {
		return err
	}
	switch op.Field {
	case FieldName:
		ex.Name = op.Value
	case FieldSets:
		ex.Sets = op.Value
	case FieldReps:
		ex.Reps = op.Value
	case FieldDescription:
		ex.Description = op.Value
	default:
		return ErrOutOfRange
	}
	return nil
}

// SetGroupName renames one muscle group.
type SetGroupName struct {
	Day, Group int
	Name       string
}

func (op SetGroupName) apply(w *WeekPlan) error {
	g, err := w.groupAt(op.Day, op.Group)
	if err != nil {
		return err
	}
	g.Name = op.Name
	return nil
}

// SetDayFocus replaces one day's focus line.
type SetDayFocus struct {
	Day   int
	Focus string
}

func (op SetDayFocus) apply(w *WeekPlan) error {
	if op.Day < 0 || op.Day >= len(w.Days) {
		return ErrOutOfRange
	}
	w.Days[op.Day].Focus = op.Focus
	return nil
}

// SetDayTime replaces one day's approximate session time.
type SetDayTime struct {
	Day  int
	Time string
}

func (op SetDayTime) apply(w *WeekPlan) error {
	if op.Day < 0 || op.Day >= len(w.Days) {
		return ErrOutOfRange
	}
	w.Days[op.Day].ApproximateTime = op.Time
	return nil
}

// AddExercise appends a placeholder exercise to one muscle group.
// The caller edits the placeholder into shape afterwards.
type AddExercise struct {
	Day, Group int
}

func (op AddExercise) apply(w *WeekPlan) error {
	g, err := w.groupAt(op.Day, op.Group)
	if err != nil {
		return err
	}
	g.Exercises = append(g.Exercises, PlaceholderExercise())
	return nil
}

// DeleteExercise removes one exercise from one muscle group.
//
// Out-of-range coordinates are a silent no-op: the draft is left unchanged
// and no error is returned. Deleting from a stale index (the UI removed
// the row already) must not corrupt the draft.
type DeleteExercise struct {
	Day, Group, Exercise int
}

func (op DeleteExercise) apply(w *WeekPlan) error {
	if op.Day < 0 || op.Day >= len(w.Days) {
		return nil
	}
	groups := w.Days[op.Day].MuscleGroups
	if op.Group < 0 || op.Group >= len(groups) {
		return nil
	}
	exs := groups[op.Group].Exercises
	if op.Exercise < 0 || op.Exercise >= len(exs) {
		return nil
	}
	groups[op.Group].Exercises = append(exs[:op.Exercise], exs[op.Exercise+1:]...)
	return nil
}

// PlaceholderExercise returns the stub exercise appended by AddExercise.
func PlaceholderExercise() Exercise {
	return Exercise{
		Name:          "New Exercise",
		Sets:          "3",
		Reps:          "10",
		Description:   "Describe how to perform this exercise.",
		TargetMuscles: []string{"Primary muscle", "Secondary muscle"},
	}
}

func (w *WeekPlan) groupAt(day, group int) (*MuscleGroup, error) {
	if day < 0 || day >= len(w.Days) {
		return nil, ErrOutOfRange
	}
	groups := w.Days[day].MuscleGroups
	if group < 0 || group >= len(groups) {
		return nil, ErrOutOfRange
	}
	return &groups[group], nil
}

func (w *WeekPlan) exerciseAt(day, group, exercise int) (*Exercise, error) {
	g, err := w.groupAt(day, group)
	if err != nil {
		return nil, err
	}
	if exercise < 0 || exercise >= len(g.Exercises) {
		return nil, ErrOutOfRange
	}
	return &g.Exercises[exercise], nil
}
