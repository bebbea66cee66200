package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pulse/internal/api/updatecheck"
	"github.com/colonyops/pulse/internal/core/config"
	"github.com/colonyops/pulse/internal/core/logging"
	"github.com/colonyops/pulse/internal/pulse"
	"github.com/colonyops/pulse/internal/tui"
	"github.com/colonyops/pulse/pkg/profiler"
)

// TuiCmd runs the interactive host. It is also the default action when
// no subcommand is given.
type TuiCmd struct {
	flags *Flags
	app   *pulse.App
}

// NewTuiCmd creates a new tui command.
func NewTuiCmd(flags *Flags, app *pulse.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Flags returns the TUI-specific flags for registration on the root command.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("PULSE_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.ProfilerPort > 0 {
		srv := profiler.New(cmd.flags.ProfilerPort)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		log.Info().Str("addr", srv.Addr()).Msg("profiler listening")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	app := cmd.app

	// Surface config edits as a toast; the new settings apply on the
	// next start.
	watcher, err := config.Watch(cmd.flags.ConfigPath, cmd.flags.DataDir, func(cfg *config.Config) {
		app.Center.Infof("config changed, restart to apply")
	}, logging.Component("config-watch"))
	if err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	// Check for a newer release in the background; failures stay quiet.
	go func() {
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		result, err := updatecheck.Check(checkCtx, app.Client, app.KV, app.Version)
		if err != nil || result == nil {
			return
		}

		// Toast each release once a day, not on every launch.
		var seen string
		if app.Cache.Get(checkCtx, "update-check:notified", &seen) && seen == result.Latest {
			return
		}
		app.Cache.Set(checkCtx, "update-check:notified", result.Latest, 24*time.Hour)
		app.Center.Infof("update available: %s → %s", result.Current, result.Latest)
	}()

	model := tui.NewModel(tui.Options{
		Config:  app.Config,
		Center:  app.Center,
		KVStore: app.KV,
		Logger:  logging.Component("tui"),
	})

	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
