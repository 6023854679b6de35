package cli

import (
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show logged workouts, most recent first",
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

			entries := s.eng.History()
			return f.Payload(entries, renderHistory(entries))
		},
	}
	return cmd
}
