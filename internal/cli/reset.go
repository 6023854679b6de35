package cli

import (
	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the plan and start a fresh week",
		Long: `Discard the current plan and return to profile intake.

Every profile field except the name is cleared so the next plan starts
from fresh answers. Workout history is kept.`,
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

			if err := s.eng.ResetForNewPlan(); err != nil {
				return fail(f, err)
			}
			s.eng.ConsumeFreshWeekNotice()

			type resetResult struct {
				Reset bool   `json:"reset"`
				User  string `json:"user"`
			}
			return f.Payload(
				resetResult{Reset: true, User: rootOpts.User},
				"Plan cleared. Update your profile and run 'fitweek generate' to start a new week.",
			)
		},
	}
	return cmd
}
