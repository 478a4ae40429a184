package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/school/app"
	"github.com/kilianp07/school/config"
	"github.com/kilianp07/school/infra/logger"
	"github.com/kilianp07/school/infra/monitoring"
)

type flags struct {
	config  string
	short   bool
	verbose bool
}

// NewRootCommand returns the school command. deps are handed to the App,
// zero fields meaning the production collaborators.
func NewRootCommand(deps app.Deps) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "school [command...]",
		Short: "A course schedule assistant",
		Long: `school loads the course definitions of the current semester and answers
"what now", "what next" and "open that" questions about them. Commands are
matched by prefix, so "school o w la" opens the website of LA.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f, deps)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "configuration file (default $SCHOOL_CONFIG or <config dir>/school/config.yaml)")
	cmd.Flags().BoolVarP(&f.short, "short", "s", false, "shorten names to abbreviations (when possible)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages to stderr")
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand(app.Deps{}).Execute()
}

func run(cmd *cobra.Command, args []string, f flags, deps app.Deps) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, explicit, err := config.Resolve(f.config)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if deps.Logger == nil {
		level := cfg.Logging.Level
		if f.verbose {
			level = "debug"
		}
		l, err := logger.New("school", logger.Options{Level: level, Format: cfg.Logging.Format})
		if err != nil {
			return err
		}
		deps.Logger = l
	}
	if deps.Out == nil {
		deps.Out = cmd.OutOrStdout()
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry, nil)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	defer mon.Flush(2 * time.Second)
	defer mon.Recover()

	a, err := app.New(cfg, app.Options{Short: f.short}, deps)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			deps.Logger.Errorf("close: %v", err)
		}
	}()

	if len(args) == 0 {
		return writeHelp(cmd, a)
	}
	err = a.Run(ctx, args)
	var n *app.Notice
	if errors.As(err, &n) {
		fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
		return nil
	}
	if err != nil {
		mon.CaptureException(err, map[string]string{"command": strings.Join(args, " ")})
	}
	return err
}

func writeHelp(cmd *cobra.Command, a *app.App) error {
	w := cmd.OutOrStdout()
	if err := a.WriteHelp(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nsupported flags:\n"+cmd.Flags().FlagUsages())
	return err
}
