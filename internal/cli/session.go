package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/rollbook/internal/config"
	"github.com/roach88/rollbook/internal/console"
	"github.com/roach88/rollbook/internal/session"
	"github.com/roach88/rollbook/internal/store"
)

// SessionOptions holds flags for the session command.
type SessionOptions struct {
	*RootOptions
	Capacity    int
	Backend     string
	UniqueRolls bool
	ConfigPath  string

	// SessionID overrides the generated session id (for testing).
	SessionID string
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start the interactive student menu",
		Long: `Start the interactive student record menu on stdin/stdout.

The store holds a fixed number of students, asked for at startup unless
--capacity or the config file sets it. Records live only for the session.

Exit codes:
  0 - Operator chose Exit
  2 - Bad flags or config, or input ended before Exit

Examples:
  rollbook session
  rollbook session --capacity 3
  rollbook session --backend sqlite --unique-rolls
  rollbook session --config ./rollbook.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, fmt.Sprintf("number of students, 1-%d (prompted when unset)", store.MaxCapacity))
	cmd.Flags().StringVar(&opts.Backend, "backend", config.DefaultBackend, "record store backend (memory|sqlite)")
	cmd.Flags().BoolVar(&opts.UniqueRolls, "unique-rolls", false, "reject a roll number already held by another student")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML session config")

	return cmd
}

func runSession(opts *SessionOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return err
	}

	logLevel := cfg.SlogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), logLevel)

	prompt := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), logger)

	capacity := cfg.Capacity
	if capacity == 0 {
		capacity, err = session.PromptCapacity(prompt)
		if err != nil {
			return inputError(err)
		}
	}

	ctx := cmd.Context()
	logger.Debug("opening store", "backend", cfg.Backend, "capacity", capacity)
	st, err := store.Open(ctx, store.Options{
		Backend:     cfg.Backend,
		Capacity:    capacity,
		UniqueRolls: cfg.UniqueRolls,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	sess := session.New(st, prompt, session.Options{
		ID:     opts.SessionID,
		Logger: logger,
	})
	if err := sess.Run(ctx); err != nil {
		return inputError(err)
	}
	return nil
}

// resolveConfig loads the config file, if any, and applies flags that were
// set explicitly on the command line.
func resolveConfig(opts *SessionOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		if opts.Capacity < 1 || opts.Capacity > store.MaxCapacity {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid capacity %d: must be between 1 and %d", opts.Capacity, store.MaxCapacity))
		}
		cfg.Capacity = opts.Capacity
	}
	if flags.Changed("backend") {
		cfg.Backend = opts.Backend
	}
	if flags.Changed("unique-rolls") {
		cfg.UniqueRolls = opts.UniqueRolls
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid session settings", err)
	}
	return cfg, nil
}

// inputError maps a session failure to an exit error.
func inputError(err error) error {
	if errors.Is(err, console.ErrInputClosed) {
		return WrapExitError(ExitCommandError, "input ended before exit", err)
	}
	return WrapExitError(ExitCommandError, "session failed", err)
}
