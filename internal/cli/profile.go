package cli

import (
	"github.com/spf13/cobra"
)

// ProfileSetOptions holds flags for the profile set command.
type ProfileSetOptions struct {
	*RootOptions
	Name        string
	Weight      string
	Height      string
	FreeDays    []string
	Gender      string
	Level       string
	Goal        string
	Equipment   string
	SessionTime string
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or update the intake profile",
	}
	cmd.AddCommand(newProfileSetCommand(rootOpts))
	cmd.AddCommand(newProfileShowCommand(rootOpts))
	return cmd
}

func newProfileSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileSetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update one or more profile fields. Only the flags you pass change;
everything else keeps its current value.

Example:
  fitweek profile set --weight 80 --height 180 --free-days Monday,Wednesday,Friday
  fitweek profile set --goal "muscle gain" --equipment "dumbbells, bands"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileSet(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Weight, "weight", "", "body weight in kg")
	cmd.Flags().StringVar(&opts.Height, "height", "", "height in cm")
	cmd.Flags().StringSliceVar(&opts.FreeDays, "free-days", nil, "training days (comma-separated weekday labels)")
	cmd.Flags().StringVar(&opts.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&opts.Level, "level", "", "fitness level (beginner|intermediate|advanced)")
	cmd.Flags().StringVar(&opts.Goal, "goal", "", "training goal")
	cmd.Flags().StringVar(&opts.Equipment, "equipment", "", "available equipment")
	cmd.Flags().StringVar(&opts.SessionTime, "session-time", "", "max session time in minutes")

	return cmd
}

func runProfileSet(opts *ProfileSetOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts.RootOptions)

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return fail(f, err)
	}
	defer s.Close()

	// Start from the stored profile; flags override field by field so a
	// partial update never wipes the rest.
	profile := s.eng.CurrentProfile()
	flags := cmd.Flags()
	if flags.Changed("name") {
		profile.Name = opts.Name
	}
	if flags.Changed("weight") {
		profile.Weight = opts.Weight
	}
	if flags.Changed("height") {
		profile.Height = opts.Height
	}
	if flags.Changed("free-days") {
		profile.FreeDays = opts.FreeDays
	}
	if flags.Changed("gender") {
		profile.Gender = opts.Gender
	}
	if flags.Changed("level") {
		profile.FitnessLevel = opts.Level
	}
	if flags.Changed("goal") {
		profile.Goal = opts.Goal
	}
	if flags.Changed("equipment") {
		profile.Equipment = opts.Equipment
	}
	if flags.Changed("session-time") {
		profile.MaxSessionTime = opts.SessionTime
	}

	if err := s.eng.UpdateProfile(profile); err != nil {
		return fail(f, err)
	}

	updated := s.eng.CurrentProfile()
	return f.Payload(updated, renderProfile(updated))
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show the current profile",
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

			profile := s.eng.CurrentProfile()
			return f.Payload(profile, renderProfile(profile))
		},
	}
	return cmd
}
