package cli

import (
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a weekly plan from the profile",
		Long: `Generate a fresh weekly plan from the current profile.

Any existing plan and its completion ledger are replaced. The profile
must have at least one free day selected.

Example:
  fitweek generate
  fitweek generate --generator remote --generator-url http://localhost:8080/plan`,
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

			f.VerboseLog("generating plan for %s via %s", rootOpts.User, rootOpts.Generator)
			if err := s.eng.RequestGeneration(s.ctx); err != nil {
				return fail(f, err)
			}

			week := s.eng.Committed()
			return f.Payload(week, renderPlan(week))
		},
	}
	return cmd
}
