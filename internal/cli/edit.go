package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitweek/fitweek/internal/plan"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	SetFocus       []string
	SetTime        []string
	SetGroup       []string
	SetExercise    []string
	AddExercise    []string
	DeleteExercise []string
	Discard        bool
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the plan through a draft",
		Long: `Edit the current plan. All operations of one invocation apply to a
single draft; the draft replaces the plan only when every operation
succeeds. With --discard the result is previewed and thrown away.

Targets are zero-based indexes as printed by 'fitweek plan':
d = day, g = muscle group, e = exercise.

Operations apply in this order: --set-focus, --set-time, --set-group,
--set-exercise, --add-exercise, --delete-exercise.

Example:
  fitweek edit --set-focus 0="Heavy push" --set-exercise 0:1:0:sets=5
  fitweek edit --add-exercise 2:0
  fitweek edit --delete-exercise 1:0:2 --discard`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.SetFocus, "set-focus", nil, "d=value: set a day's focus")
	cmd.Flags().StringArrayVar(&opts.SetTime, "set-time", nil, "d=value: set a day's approximate time")
	cmd.Flags().StringArrayVar(&opts.SetGroup, "set-group", nil, "d:g=name: rename a muscle group")
	cmd.Flags().StringArrayVar(&opts.SetExercise, "set-exercise", nil, "d:g:e:field=value: set an exercise field (name|sets|reps|description)")
	cmd.Flags().StringArrayVar(&opts.AddExercise, "add-exercise", nil, "d:g: append a placeholder exercise")
	cmd.Flags().StringArrayVar(&opts.DeleteExercise, "delete-exercise", nil, "d:g:e: delete an exercise")
	cmd.Flags().BoolVar(&opts.Discard, "discard", false, "preview the edited plan without committing it")

	return cmd
}

func runEdit(opts *EditOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts.RootOptions)

	ops, err := parseEditOps(opts)
	if err != nil {
		return fail(f, err)
	}
	if len(ops) == 0 {
		return fail(f, fmt.Errorf("no edit operations given, see 'fitweek edit --help'"))
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return fail(f, err)
	}
	defer s.Close()

	if !s.eng.StartEdit() {
		return fail(f, fmt.Errorf("no plan to edit, run 'fitweek generate'"))
	}

	for _, op := range ops {
		if err := s.eng.Edit(op); err != nil {
			_ = s.eng.DiscardEdit()
			return fail(f, err)
		}
	}

	if opts.Discard {
		draft := s.eng.Draft()
		if err := s.eng.DiscardEdit(); err != nil {
			return fail(f, err)
		}
		return f.Payload(draft, renderPlan(draft)+"\n\n(Preview only, nothing was changed.)")
	}

	if err := s.eng.CommitEdit(); err != nil {
		return fail(f, err)
	}
	week := s.eng.Committed()
	return f.Payload(week, renderPlan(week))
}

// parseEditOps translates the repeatable edit flags into typed operations.
func parseEditOps(opts *EditOptions) ([]plan.EditOp, error) {
	var ops []plan.EditOp

	for _, spec := range opts.SetFocus {
		target, value, err := splitAssignment("--set-focus", spec)
		if err != nil {
			return nil, err
		}
		coords, err := parseCoords("--set-focus", target, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, plan.SetDayFocus{Day: coords[0], Focus: value})
	}

	for _, spec := range opts.SetTime {
		target, value, err := splitAssignment("--set-time", spec)
		if err != nil {
			return nil, err
		}
		coords, err := parseCoords("--set-time", target, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, plan.SetDayTime{Day: coords[0], Time: value})
	}

	for _, spec := range opts.SetGroup {
		target, value, err := splitAssignment("--set-group", spec)
		if err != nil {
			return nil, err
		}
		coords, err := parseCoords("--set-group", target, 2)
		if err != nil {
			return nil, err
		}
		ops = append(ops, plan.SetGroupName{Day: coords[0], Group: coords[1], Name: value})
	}

	for _, spec := range opts.SetExercise {
		target, value, err := splitAssignment("--set-exercise", spec)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(target, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("--set-exercise %q: want d:g:e:field=value", spec)
		}
		coords, err := parseCoords("--set-exercise", strings.Join(parts[:3], ":"), 3)
		if err != nil {
			return nil, err
		}
		field := plan.ExerciseField(parts[3])
		if !plan.ValidExerciseField(field) {
			return nil, fmt.Errorf("--set-exercise %q: unknown field %q (name|sets|reps|description)", spec, parts[3])
		}
		ops = append(ops, plan.SetExerciseField{
			Day: coords[0], Group: coords[1], Exercise: coords[2],
			Field: field, Value: value,
		})
	}

	for _, spec := range opts.AddExercise {
		coords, err := parseCoords("--add-exercise", spec, 2)
		if err != nil {
			return nil, err
		}
		ops = append(ops, plan.AddExercise{Day: coords[0], Group: coords[1]})
	}

	for _, spec := range opts.DeleteExercise {
		coords, err := parseCoords("--delete-exercise", spec, 3)
		if err != nil {
			return nil, err
		}
		ops = append(ops, plan.DeleteExercise{Day: coords[0], Group: coords[1], Exercise: coords[2]})
	}

	return ops, nil
}

// splitAssignment splits "target=value" at the first '='. The value may
// itself contain '=' or ':'.
func splitAssignment(flag, spec string) (target, value string, err error) {
	target, value, ok := strings.Cut(spec, "=")
	if !ok || target == "" {
		return "", "", fmt.Errorf("%s %q: want target=value", flag, spec)
	}
	return target, value, nil
}

// parseCoords parses n colon-separated non-negative indexes.
func parseCoords(flag, spec string, n int) ([]int, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != n {
		return nil, fmt.Errorf("%s %q: want %d colon-separated indexes", flag, spec, n)
	}
	coords := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%s %q: %q is not a valid index", flag, spec, p)
		}
		coords[i] = v
	}
	return coords, nil
}
