package cli

import (
	"fmt"
	"strings"

	"github.com/fitweek/fitweek/internal/plan"
)

// renderProfile renders the profile for text output.
func renderProfile(p plan.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:          %s\n", orDash(p.Name))
	fmt.Fprintf(&b, "Weight:        %s\n", orDash(p.Weight))
	fmt.Fprintf(&b, "Height:        %s\n", orDash(p.Height))
	fmt.Fprintf(&b, "Free days:     %s\n", orDash(strings.Join(p.FreeDays, ", ")))
	fmt.Fprintf(&b, "Gender:        %s\n", orDash(p.Gender))
	fmt.Fprintf(&b, "Fitness level: %s\n", orDash(p.FitnessLevel))
	fmt.Fprintf(&b, "Goal:          %s\n", orDash(p.Goal))
	fmt.Fprintf(&b, "Equipment:     %s\n", orDash(p.Equipment))
	fmt.Fprintf(&b, "Session time:  %s", orDash(p.MaxSessionTime))
	return b.String()
}

// renderPlan renders the weekly plan for text output. Day, group, and
// exercise indexes are printed so edit targets can be read straight off
// the listing.
func renderPlan(w *plan.WeekPlan) string {
	var b strings.Builder
	if w.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", w.Summary)
	}
	for di, day := range w.Days {
		mark := " "
		if w.DayCompleted(day.Day) {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %d. %s", mark, di, day.Day)
		if day.Focus != "" {
			fmt.Fprintf(&b, " - %s", day.Focus)
		}
		if day.ApproximateTime != "" {
			fmt.Fprintf(&b, " (%s", day.ApproximateTime)
			if day.CaloriesBurned > 0 {
				fmt.Fprintf(&b, ", ~%d kcal", day.CaloriesBurned)
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
		for gi, group := range day.MuscleGroups {
			fmt.Fprintf(&b, "    %d.%d %s\n", di, gi, group.Name)
			for ei, ex := range group.Exercises {
				fmt.Fprintf(&b, "        %d.%d.%d %s  %sx%s\n", di, gi, ei, ex.Name, ex.Sets, ex.Reps)
			}
		}
	}
	if w.TotalWeeklyTime != "" || w.TotalWeeklyCaloriesBurned > 0 {
		fmt.Fprintf(&b, "\nWeekly total: %s, ~%d kcal", w.TotalWeeklyTime, w.TotalWeeklyCaloriesBurned)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHistory renders workout history, most recent first.
func renderHistory(entries []plan.WorkoutLogEntry) string {
	if len(entries) == 0 {
		return "No workouts logged yet."
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-10s %-12s ~%d kcal\n",
			e.Date.Format("2006-01-02 15:04"), e.DayName, e.Focus, e.CaloriesBurned)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
