package cli

import (
	"github.com/spf13/cobra"

	"github.com/fitweek/fitweek/internal/engine"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan",
		Short:         "Show the current weekly plan",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
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
					Message: "no plan generated yet, run 'fitweek generate'",
				})
			}
			return f.Payload(week, renderPlan(week))
		},
	}
	return cmd
}
