package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fitweek/fitweek/internal/engine"
	"github.com/fitweek/fitweek/internal/generator"
	"github.com/fitweek/fitweek/internal/store"
)

// session bundles the store, engine, and loaded user for one command
// invocation. Every subcommand is one session: open, perform a single
// operation, close.
type session struct {
	opts  *RootOptions
	store *store.Store
	eng   *engine.Engine
	ctx   context.Context
}

// newFormatter builds the output formatter for a command.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession opens the database, builds the generator and engine, and
// loads the user. The returned session must be closed to drain pending
// persistence writes.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	configureLogging(opts.Verbose)

	if opts.User == "" {
		return nil, fmt.Errorf("no user: pass --user or set FITWEEK_USER")
	}

	gen, err := buildGenerator(opts)
	if err != nil {
		return nil, err
	}

	if opts.Database != ":memory:" {
		if dir := filepath.Dir(opts.Database); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	eng := engine.New(st, gen)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := eng.LoadUser(ctx, opts.User); err != nil {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
		return nil, err
	}

	return &session{opts: opts, store: st, eng: eng, ctx: ctx}, nil
}

// Close drains pending persistence writes and closes the database.
//
// One-shot commands never start the synchronizer worker in the
// background; Close followed by Run drains whatever is pending
// synchronously before the process exits.
func (s *session) Close() {
	s.eng.Close()
	_ = s.eng.Run(context.Background())
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// buildGenerator constructs the plan generator selected by the flags.
func buildGenerator(opts *RootOptions) (engine.PlanGenerator, error) {
	switch opts.Generator {
	case "remote":
		return generator.NewRemote(opts.GeneratorURL, nil), nil
	default:
		return generator.NewBuiltin()
	}
}

// configureLogging installs the default slog handler for the process.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
