package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/odvcencio/interpose/pkg/app"
	"github.com/odvcencio/interpose/pkg/config"
	"github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/logging"
	"github.com/odvcencio/interpose/pkg/state"
	"github.com/odvcencio/interpose/pkg/telemetry"
	"github.com/odvcencio/interpose/pkg/ui/backend"
	tcellbackend "github.com/odvcencio/interpose/pkg/ui/backend/tcell"
	"github.com/odvcencio/interpose/pkg/ui/theme"
)

var (
	configPath  string
	logLevel    string
	sessionName string
)

var rootCmd = &cobra.Command{
	Use:   "interpose",
	Short: "Terminal front end for a proxy session",
	Long: `interpose shows the state of a proxy session in the terminal.

Press q (or Ctrl-C) to open the quit dialog, then y to end the session,
d to detach and leave it running, or Escape to go back.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.interpose/config.yaml then ./.interpose/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Minimum log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&sessionName, "session", "", "Session name shown in the title bar")
	rootCmd.AddCommand(logsCmd)
}

func execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("interpose %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("interpose %s\n", version)
}

// loadConfig loads from --config or the default locations and applies the
// command line overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if sessionName != "" {
		cfg.Session.Name = sessionName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isInteractiveTerminal() {
		return errors.New(errors.ErrCodeTerminalInit, "stdin and stdout must be a terminal").
			WithUserMessage("interpose needs an interactive terminal")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := tcellbackend.New(backend.Options{
		Mouse: cfg.UI.Mouse,
		Paste: cfg.UI.Paste,
		Focus: cfg.UI.FocusEvents,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminalInit, "create terminal screen").
			WithUserMessage("interpose could not open the terminal")
	}

	return runSession(cmd.Context(), cfg, b, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runSession runs the UI loop on b alongside the signal watcher and reports
// how the session ended on out.
func runSession(ctx context.Context, cfg *config.Config, b backend.Backend, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	workdir, err := os.Getwd()
	if err != nil {
		workdir = ""
	}

	sessionID := logging.NewSessionID()
	logger, err := logging.NewLogger(cfg.LogDir(workdir), sessionID)
	if err != nil {
		fmt.Fprintf(errOut, "warning: session logging disabled: %v\n", err)
	}
	logger.SetMinLevel(cfg.LogLevel())
	defer logger.Close()

	_ = logger.Info(logging.CategoryConfig, "loaded", "configuration loaded", map[string]any{
		"session":  cfg.Session.Name,
		"upstream": cfg.Session.Upstream,
		"theme":    cfg.UI.Theme,
	})

	th, err := theme.Resolve(cfg.UI.Theme)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "resolve theme")
	}

	metrics := telemetry.New()
	tx, rx := event.New()
	st := state.New(sessionID, cfg.Session.Name, cfg.Session.Upstream, cfg.Session.Status)

	loop, err := app.New(app.Config{
		Backend:  b,
		Sender:   tx,
		Receiver: rx,
		Logger:   logger,
		Metrics:  metrics,
		Theme:    th,
		State:    st,
	})
	if err != nil {
		return err
	}

	sigs, stopSignals := notifySignals()
	defer stopSignals()

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	var reason app.ExitReason
	g.Go(func() error {
		defer stopWatch()
		r, err := loop.Run(gctx)
		reason = r
		return err
	})
	g.Go(func() error {
		return watchSignals(watchCtx, telemetry.InstrumentSender(tx, metrics), sigs, logger)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		_ = logger.Warn(logging.CategorySession, "metrics_write_failed", err.Error(), map[string]any{
			"path": cfg.Metrics.Textfile,
		})
	}

	switch reason {
	case app.ExitQuit:
		fmt.Fprintf(out, "session %s ended\n", cfg.Session.Name)
	case app.ExitDetach:
		fmt.Fprintf(out, "detached from session %s (%s)\n", cfg.Session.Name, sessionID)
	}
	return nil
}
