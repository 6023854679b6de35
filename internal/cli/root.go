package cli

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Database     string
	User         string
	Format       string // "json" | "text"
	Verbose      bool
	Generator    string // "builtin" | "remote"
	GeneratorURL string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidGenerators defines the allowed plan generator backends.
var ValidGenerators = []string{"builtin", "remote"}

// NewRootCommand creates the root command for the fitweek CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fitweek",
		Short: "FitWeek - weekly workout plans that survive restarts",
		Long: `FitWeek generates a weekly workout plan from your profile, tracks which
days you completed, and keeps everything in a local SQLite database so
your plan and history are there the next time you run it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !isValidGenerator(opts.Generator) {
				return fmt.Errorf("invalid generator %q: must be one of %v", opts.Generator, ValidGenerators)
			}
			if opts.Generator == "remote" && opts.GeneratorURL == "" {
				return fmt.Errorf("--generator remote requires --generator-url")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", defaultDatabase(), "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.User, "user", defaultUser(), "user the command acts on")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Generator, "generator", "builtin", "plan generator backend (builtin|remote)")
	cmd.PersistentFlags().StringVar(&opts.GeneratorURL, "generator-url", "", "endpoint for --generator remote")

	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// isValidGenerator checks if the generator is one of the allowed values.
func isValidGenerator(gen string) bool {
	for _, g := range ValidGenerators {
		if g == gen {
			return true
		}
	}
	return false
}

// defaultDatabase returns ~/.fitweek/fitweek.db, or a file in the working
// directory when the home directory cannot be resolved.
func defaultDatabase() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fitweek.db"
	}
	return filepath.Join(home, ".fitweek", "fitweek.db")
}

// defaultUser resolves the acting user: $FITWEEK_USER first, then the OS
// user. Empty when neither is available; commands reject an empty user.
func defaultUser() string {
	if u := os.Getenv("FITWEEK_USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
