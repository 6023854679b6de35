package plan

import "time"

// Profile is the user's intake data driving plan generation.
//
// All fields are free-form strings except FreeDays, which carries logical
// set semantics: distinct weekday labels, order preserved, duplicates
// dropped (see NormalizeFreeDays).
type Profile struct {
	Name           string   `json:"name"`
	Weight         string   `json:"weight"`
	Height         string   `json:"height"`
	FreeDays       []string `json:"freeDays"`
	Gender         string   `json:"gender"`
	FitnessLevel   string   `json:"fitnessLevel"`
	Goal           string   `json:"goal"`
	Equipment      string   `json:"equipment"`
	MaxSessionTime string   `json:"maxSessionTime"`
}

// Exercise is a single prescribed movement within a muscle group.
type Exercise struct {
	Name          string   `json:"name"`
	Sets          string   `json:"sets"`
	Reps          string   `json:"reps"`
	Description   string   `json:"description"`
	TargetMuscles []string `json:"targetMuscles"`
}

// MuscleGroup is an ordered block of exercises for one muscle group.
type MuscleGroup struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// PlanDay is one training day of the weekly plan.
type PlanDay struct {
	Day             string        `json:"day"`
	MuscleGroups    []MuscleGroup `json:"muscleGroups"`
	Focus           string        `json:"focus"`
	ApproximateTime string        `json:"approximateTime"`
	CaloriesBurned  int           `json:"caloriesBurned"`
}

// WeekPlan is a complete weekly plan: the ordered training days plus the
// completion ledger.
//
// The same structural type serves as the committed plan and as the draft
// under edit - committed vs draft is an ownership distinction inside the
// engine, never a type distinction. Isolation between the two is by deep
// copy (Clone); a committed plan and a draft must never share mutable
// substructure.
//
// CompletedDays holds logical set semantics over normalized day labels and
// is always a subset of the labels present in Days.
type WeekPlan struct {
	Days                      []PlanDay `json:"plan"`
	Summary                   string    `json:"summary"`
	TotalWeeklyTime           string    `json:"totalWeeklyTime"`
	TotalWeeklyCaloriesBurned int       `json:"totalWeeklyCaloriesBurned"`
	CompletedDays             []string  `json:"completedDays"`
}

// WorkoutLogEntry is one append-only history record, created per successful
// logging action and immutable afterwards.
type WorkoutLogEntry struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	DayName        string    `json:"dayName"`
	Focus          string    `json:"focus"`
	CaloriesBurned int       `json:"caloriesBurned"`
}

// UserState is the unit the store persists per user: the profile plus the
// committed plan (nil when the user has no plan).
type UserState struct {
	Username    string    `json:"username"`
	UserData    Profile   `json:"userData"`
	WorkoutPlan *WeekPlan `json:"workoutPlan"`
}
