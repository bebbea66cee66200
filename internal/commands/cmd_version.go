package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pulse/internal/api/updatecheck"
	"github.com/colonyops/pulse/internal/pulse"
)

// VersionCmd prints the build version and optionally checks whether a
// newer release exists.
type VersionCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	check bool
}

// NewVersionCmd creates a new version command.
func NewVersionCmd(flags *Flags, app *pulse.App) *VersionCmd {
	return &VersionCmd{flags: flags, app: app}
}

// Register adds the version command to the application.
func (cmd *VersionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "version",
		Usage:     "Print version information",
		UsageText: "pulse version [--check]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "also check for a newer release",
				Destination: &cmd.check,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *VersionCmd) run(ctx context.Context, c *cli.Command) error {
	fmt.Println(cmd.app.Version)

	if !cmd.check {
		return nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := updatecheck.Check(checkCtx, cmd.app.Client, cmd.app.KV, cmd.app.Version)
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if result == nil {
		fmt.Println("up to date")
		return nil
	}

	fmt.Printf("update available: %s -> %s\n", result.Current, result.Latest)
	return nil
}
