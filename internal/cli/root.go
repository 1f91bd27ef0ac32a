// Package cli implements the regen command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tacogips/regen/internal/config"
	"github.com/tacogips/regen/internal/logging"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regen",
		Short: "Regenerate source trees from templates and data",
		Long: `regen renders a template tree against structured data into an output tree.

Files ending in .j2 are rendered and keep the manual sections of the files they
replace. Files ending in .inj are rendered and spliced into existing files at
their injection points. Everything else is copied.

Running regen without a subcommand is the same as "regen generate".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	addGlobalFlags(cmd)
	addGenerateFlags(cmd)

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// session is the per-invocation state shared by commands.
type session struct {
	settings *config.Settings
	logger   *slog.Logger
	printer  *printer
}

// newSession resolves settings from the command's flags and the environment.
// Errors are printed before they are returned.
func newSession(cmd *cobra.Command) (*session, error) {
	settings, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), true, false)
		p.printError(err.Error())
		return nil, err
	}

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), settings.NoColor, settings.Quiet)

	logger, err := newLogger(cmd.ErrOrStderr(), settings)
	if err != nil {
		p.printError(err.Error())
		return nil, err
	}
	return &session{settings: settings, logger: logger, printer: p}, nil
}

func newLogger(w io.Writer, s *config.Settings) (*slog.Logger, error) {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", FlagLogLevel, err)
	}
	if s.Quiet && level < slog.LevelError {
		level = slog.LevelError
	}
	return logging.New(w, logging.Options{
		Level:   level,
		NoColor: s.NoColor || !isTerminal(w),
	}), nil
}

// fail prints err and returns it.
func (s *session) fail(err error) error {
	s.printer.printError(err.Error())
	return err
}
