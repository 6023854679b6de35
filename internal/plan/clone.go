package plan

// Clone returns a deep copy of the profile.
// The returned value shares no mutable substructure with the receiver.
func (p Profile) Clone() Profile {
	out := p
	out.FreeDays = cloneStrings(p.FreeDays)
	return out
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	out.TargetMuscles = cloneStrings(e.TargetMuscles)
	return out
}

// Clone returns a deep copy of the muscle group.
func (g MuscleGroup) Clone() MuscleGroup {
	out := g
	if g.Exercises != nil {
		out.Exercises = make([]Exercise, len(g.Exercises))
		for i, e := range g.Exercises {
			out.Exercises[i] = e.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the plan day.
func (d PlanDay) Clone() PlanDay {
	out := d
	if d.MuscleGroups != nil {
		out.MuscleGroups = make([]MuscleGroup, len(d.MuscleGroups))
		for i, g := range d.MuscleGroups {
			out.MuscleGroups[i] = g.Clone()
		}
	}
	return out
}

// Clone returns a deep, fully independent copy of the week plan.
//
// This is the isolation primitive for draft editing: mutating the clone
// must never observably mutate the original, and vice versa. Nil receiver
// clones to nil so callers can clone optional plans without guarding.
func (w *WeekPlan) Clone() *WeekPlan {
	if w == nil {
		return nil
	}
	out := &WeekPlan{
		Summary:                   w.Summary,
		TotalWeeklyTime:           w.TotalWeeklyTime,
		TotalWeeklyCaloriesBurned: w.TotalWeeklyCaloriesBurned,
		CompletedDays:             cloneStrings(w.CompletedDays),
	}
	if w.Days != nil {
		out.Days = make([]PlanDay, len(w.Days))
		for i, d := range w.Days {
			out.Days[i] = d.Clone()
		}
	}
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
