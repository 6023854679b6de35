package generator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fitweek/fitweek/internal/plan"
)

//go:embed catalog.yaml
var catalogYAML []byte

// defaultSessionMinutes is assumed when the profile's max session time is
// absent or unparseable.
const defaultSessionMinutes = 45

// catalog is the parsed exercise catalog.
type catalog struct {
	Groups []catalogGroup `yaml:"groups"`
}

type catalogGroup struct {
	Name      string            `yaml:"name"`
	Exercises []catalogExercise `yaml:"exercises"`
}

type catalogExercise struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	TargetMuscles  []string `yaml:"target_muscles"`
	Equipment      []string `yaml:"equipment"`
	Levels         []string `yaml:"levels"`
	Minutes        int      `yaml:"minutes"`
	CaloriesPerSet int      `yaml:"calories_per_set"`
}

// repScheme is the set/rep prescription derived from the training goal.
type repScheme struct {
	sets int
	reps string
}

// Builtin is the catalog-driven plan generator.
//
// Fully deterministic: the same profile and BMI always produce the same
// plan. The weekly split follows the free-day count (1-3 full body,
// 4 upper/lower, 5+ push/pull/legs), exercises are filtered by equipment
// and fitness level, and the set/rep scheme follows the goal.
type Builtin struct {
	catalog catalog
	groups  map[string]catalogGroup
}

// NewBuiltin parses and validates the embedded catalog.
func NewBuiltin() (*Builtin, error) {
	var cat catalog
	dec := yaml.NewDecoder(bytes.NewReader(catalogYAML))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("parse exercise catalog: %w", err)
	}

	if len(cat.Groups) == 0 {
		return nil, fmt.Errorf("exercise catalog has no groups")
	}
	groups := make(map[string]catalogGroup, len(cat.Groups))
	for _, g := range cat.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("exercise catalog: group with empty name")
		}
		if len(g.Exercises) == 0 {
			return nil, fmt.Errorf("exercise catalog: group %q has no exercises", g.Name)
		}
		if _, dup := groups[g.Name]; dup {
			return nil, fmt.Errorf("exercise catalog: duplicate group %q", g.Name)
		}
		for _, ex := range g.Exercises {
			if ex.Name == "" {
				return nil, fmt.Errorf("exercise catalog: group %q: exercise with empty name", g.Name)
			}
			if ex.Minutes <= 0 || ex.CaloriesPerSet <= 0 {
				return nil, fmt.Errorf("exercise catalog: group %q: exercise %q needs positive minutes and calories", g.Name, ex.Name)
			}
		}
		groups[g.Name] = g
	}

	// Every group a split references must exist in the catalog.
	for _, split := range [][]daySlot{fullBodySplit, upperLowerSplit, pushPullLegsSplit} {
		for _, slot := range split {
			for _, name := range slot.groups {
				if _, ok := groups[name]; !ok {
					return nil, fmt.Errorf("exercise catalog: split references unknown group %q", name)
				}
			}
		}
	}

	return &Builtin{catalog: cat, groups: groups}, nil
}

// daySlot is one day template of a weekly split.
type daySlot struct {
	focus  string
	groups []string
}

var (
	fullBodySplit = []daySlot{
		{focus: "Full Body", groups: []string{"Chest", "Back", "Legs", "Core"}},
	}
	upperLowerSplit = []daySlot{
		{focus: "Upper Body", groups: []string{"Chest", "Back", "Shoulders"}},
		{focus: "Lower Body", groups: []string{"Legs", "Glutes", "Core"}},
	}
	pushPullLegsSplit = []daySlot{
		{focus: "Push", groups: []string{"Chest", "Shoulders", "Triceps"}},
		{focus: "Pull", groups: []string{"Back", "Biceps"}},
		{focus: "Legs", groups: []string{"Legs", "Glutes", "Core"}},
	}
)

// splitFor selects the weekly split template by training-day count.
func splitFor(days int) []daySlot {
	switch {
	case days <= 3:
		return fullBodySplit
	case days == 4:
		return upperLowerSplit
	default:
		return pushPullLegsSplit
	}
}

// schemeFor maps the free-form goal to a set/rep prescription.
// Strength 3-6 reps, muscle gain 8-12, everything else 10-15.
func schemeFor(goal string) repScheme {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "strength"):
		return repScheme{sets: 5, reps: "5"}
	case strings.Contains(g, "muscle"), strings.Contains(g, "gain"), strings.Contains(g, "hypertrophy"):
		return repScheme{sets: 4, reps: "10"}
	default:
		return repScheme{sets: 3, reps: "12"}
	}
}

// Generate builds the weekly plan. One PlanDay per free day, in the order
// the days were chosen.
func (b *Builtin) Generate(_ context.Context, profile plan.Profile, bmi float64) (*plan.WeekPlan, error) {
	freeDays := plan.NormalizeFreeDays(profile.FreeDays)
	if len(freeDays) == 0 {
		return nil, fmt.Errorf("no free days selected")
	}

	split := splitFor(len(freeDays))
	scheme := schemeFor(profile.Goal)
	sessionMinutes := parseMinutes(profile.MaxSessionTime)
	perGroup := exercisesPerGroup(sessionMinutes)

	week := &plan.WeekPlan{CompletedDays: []string{}}
	totalMinutes := 0

	for i, day := range freeDays {
		slot := split[i%len(split)]
		planDay := plan.PlanDay{Day: day, Focus: slot.focus}

		dayMinutes := 0
		for _, groupName := range slot.groups {
			group := b.buildGroup(groupName, profile, scheme, perGroup)
			for _, ex := range group.Exercises {
				src := b.sourceExercise(groupName, ex.Name)
				dayMinutes += src.Minutes
				planDay.CaloriesBurned += src.CaloriesPerSet * scheme.sets
			}
			planDay.MuscleGroups = append(planDay.MuscleGroups, group)
		}

		planDay.ApproximateTime = fmt.Sprintf("%d minutes", dayMinutes)
		totalMinutes += dayMinutes
		week.TotalWeeklyCaloriesBurned += planDay.CaloriesBurned
		week.Days = append(week.Days, planDay)
	}

	week.TotalWeeklyTime = fmt.Sprintf("%d minutes", totalMinutes)
	week.Summary = summarize(len(freeDays), split, profile, bmi)
	return week, nil
}

// buildGroup picks up to perGroup exercises for one muscle group, filtered
// by equipment and fitness level. When the filter empties the group the
// unfiltered list is used instead - a generated day never comes out empty.
func (b *Builtin) buildGroup(groupName string, profile plan.Profile, scheme repScheme, perGroup int) plan.MuscleGroup {
	src := b.groups[groupName]

	eligible := make([]catalogExercise, 0, len(src.Exercises))
	for _, ex := range src.Exercises {
		if equipmentMatches(ex.Equipment, profile.Equipment) && levelMatches(ex.Levels, profile.FitnessLevel) {
			eligible = append(eligible, ex)
		}
	}
	if len(eligible) == 0 {
		eligible = src.Exercises
	}
	if len(eligible) > perGroup {
		eligible = eligible[:perGroup]
	}

	out := plan.MuscleGroup{Name: groupName}
	for _, ex := range eligible {
		out.Exercises = append(out.Exercises, plan.Exercise{
			Name:          ex.Name,
			Sets:          strconv.Itoa(scheme.sets),
			Reps:          scheme.reps,
			Description:   ex.Description,
			TargetMuscles: append([]string(nil), ex.TargetMuscles...),
		})
	}
	return out
}

// sourceExercise looks a generated exercise back up in the catalog for its
// time and calorie metadata.
func (b *Builtin) sourceExercise(groupName, exerciseName string) catalogExercise {
	for _, ex := range b.groups[groupName].Exercises {
		if ex.Name == exerciseName {
			return ex
		}
	}
	return catalogExercise{}
}

// equipmentMatches reports whether any of the exercise's equipment tags is
// available. Bodyweight work is always available; otherwise the tag must
// appear in the profile's free-form equipment text.
func equipmentMatches(tags []string, available string) bool {
	available = strings.ToLower(available)
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		if tag == "bodyweight" || tag == "none" {
			return true
		}
		if strings.Contains(available, tag) {
			return true
		}
	}
	return len(tags) == 0
}

// levelMatches reports whether the exercise suits the profile's fitness
// level. An empty tag list means all levels; an empty profile level
// matches everything.
func levelMatches(levels []string, level string) bool {
	if len(levels) == 0 || strings.TrimSpace(level) == "" {
		return true
	}
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range levels {
		if strings.ToLower(l) == level {
			return true
		}
	}
	return false
}

// parseMinutes extracts the leading number from a free-form session time
// ("60", "60 min", "about 60 minutes").
func parseMinutes(s string) int {
	s = strings.TrimSpace(s)
	start := -1
	end := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			end = i + 1
		} else if start != -1 {
			break
		}
	}
	if start == -1 {
		return defaultSessionMinutes
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil || n <= 0 {
		return defaultSessionMinutes
	}
	return n
}

// exercisesPerGroup scales volume with the session budget.
func exercisesPerGroup(sessionMinutes int) int {
	switch {
	case sessionMinutes < 40:
		return 1
	case sessionMinutes < 70:
		return 2
	default:
		return 3
	}
}

// summarize produces the one-line plan summary.
func summarize(days int, split []daySlot, profile plan.Profile, bmi float64) string {
	style := "full body"
	switch {
	case days == 4:
		style = "upper/lower"
	case days >= 5:
		style = "push/pull/legs"
	}
	goal := strings.TrimSpace(profile.Goal)
	if goal == "" {
		goal = "general fitness"
	}
	if bmi > 0 {
		return fmt.Sprintf("%d-day %s split for %s (BMI %.1f)", days, style, goal, bmi)
	}
	return fmt.Sprintf("%d-day %s split for %s", days, style, goal)
}
