package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitweek/fitweek/internal/engine"
	"github.com/fitweek/fitweek/internal/plan"
)

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <day-index|day-label>",
		Short: "Log a completed workout day",
		Long: `Log a workout for one day of the plan, by zero-based day index or by
day label. Logging always appends a history entry; marking the day
completed happens only the first time.

Example:
  fitweek log 0
  fitweek log Monday`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLog(rootOpts *RootOptions, dayArg string, cmd *cobra.Command) error {
	f := newFormatter(cmd, rootOpts)

	s, err := openSession(cmd, rootOpts)
	if err != nil {
		return fail(f, err)
	}
	defer s.Close()

	week := s.eng.Committed()
	if week == nil {
		return fail(f, &engine.StateError{
			Code:    engine.ErrCodeNoPlan,
			Message: "no plan to log against, run 'fitweek generate'",
		})
	}

	dayIndex, err := resolveDay(week, dayArg)
	if err != nil {
		return fail(f, err)
	}

	result, err := s.eng.LogWorkout(s.ctx, dayIndex)
	if err != nil {
		return fail(f, err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Logged %s", result.Entry.DayName)
	if result.Entry.Focus != "" {
		fmt.Fprintf(&text, " (%s)", result.Entry.Focus)
	}
	if result.Entry.CaloriesBurned > 0 {
		fmt.Fprintf(&text, ", ~%d kcal", result.Entry.CaloriesBurned)
	}
	text.WriteString(".")
	if result.AlreadyCompleted {
		text.WriteString("\nThis day was already completed; the extra session was recorded in history.")
	}
	if result.BecameComplete {
		text.WriteString("\nWeek complete! Run 'fitweek reset' to start a new one.")
	}
	return f.Payload(result, text.String())
}

// resolveDay maps a numeric index or a day label to a plan day index.
func resolveDay(week *plan.WeekPlan, arg string) (int, error) {
	if idx, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		return idx, nil // range checking belongs to the engine
	}

	want := plan.NormalizeDayLabel(arg)
	for i, day := range week.Days {
		if strings.EqualFold(plan.NormalizeDayLabel(day.Day), want) {
			return i, nil
		}
	}
	return 0, &engine.StateError{
		Code:    engine.ErrCodeDayOutOfRange,
		Message: fmt.Sprintf("no day %q in the current plan", arg),
	}
}
