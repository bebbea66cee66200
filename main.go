package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pulse/internal/api"
	"github.com/colonyops/pulse/internal/commands"
	"github.com/colonyops/pulse/internal/core/config"
	"github.com/colonyops/pulse/internal/core/logging"
	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/internal/core/styles"
	"github.com/colonyops/pulse/internal/data/db"
	"github.com/colonyops/pulse/internal/data/stores"
	"github.com/colonyops/pulse/internal/pulse"
	"github.com/colonyops/pulse/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		pulseApp  = &pulse.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "pulse",
		Usage:     "Terminal client runtime: notifications, store, request pipeline",
		UsageText: "pulse [global options] command [command options]",
		Description: `Pulse is the interactive host for the colonyops client runtime. It surfaces
notifications as toasts, browses the persistent store, and issues requests
through a retrying, timeout-bounded pipeline.

Run 'pulse' with no arguments to open the interactive host.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("PULSE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/pulse.log)",
				Sources:     cli.EnvVars("PULSE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("PULSE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("PULSE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns stdout.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "pulse.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Validation ensures the theme name is known.
			palette, _ := styles.GetPalette(cfg.UI.Theme)
			styles.SetTheme(palette)

			database, err = db.Open(cfg.DataDir, db.Options{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			})
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			kvStore := stores.NewKVStore(database)

			var history notify.Store
			if cfg.Notifications.History {
				history = stores.NewNotifyStore(database)
			}

			center := notify.NewCenter(notify.Options{
				DefaultTTL: cfg.Notifications.TTL.Std(),
				Grace:      cfg.Notifications.Grace.Std(),
				Store:      history,
				Logger:     logging.Component("notify"),
			})

			overrides := make([]api.RetryOverride, 0, len(cfg.API.RetryOverrides))
			for _, o := range cfg.API.RetryOverrides {
				overrides = append(overrides, api.RetryOverride{
					Pattern:    o.Pattern,
					MaxRetries: o.MaxRetries,
				})
			}

			client := api.New(api.Options{
				BaseURL:    cfg.API.BaseURL,
				Timeout:    cfg.API.Timeout.Std(),
				MaxRetries: cfg.API.Retries,
				Overrides:  overrides,
				Logger:     logging.Component("api"),
			})

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*pulseApp = *pulse.NewApp(cfg, center, kvStore, client, database, version)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, pulseApp)

	app = commands.NewKvCmd(flags, pulseApp).Register(app)
	app = commands.NewCallCmd(flags, pulseApp).Register(app)
	app = commands.NewNotifyCmd(flags, pulseApp).Register(app)
	app = commands.NewVersionCmd(flags, pulseApp).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'pulse --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if runErr := app.Run(ctx, os.Args); runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
