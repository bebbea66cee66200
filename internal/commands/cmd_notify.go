package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/internal/pulse"
	"github.com/colonyops/pulse/pkg/timex"
)

// NotifyCmd works with the persisted notification history.
type NotifyCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	kind string
}

// NewNotifyCmd creates a new notify command group.
func NewNotifyCmd(flags *Flags, app *pulse.App) *NotifyCmd {
	return &NotifyCmd{flags: flags, app: app}
}

// Register adds the notify command group to the application.
func (cmd *NotifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notify",
		Usage:     "Post and inspect notifications",
		UsageText: "pulse notify <send|ls|clear> [args]",
		Commands: []*cli.Command{
			{
				Name:      "send",
				Usage:     "Record a notification",
				UsageText: "pulse notify send [--kind success] <message>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "kind",
						Usage:       "one of success, error, warning, info",
						Value:       "info",
						Destination: &cmd.kind,
					},
				},
				Action: cmd.runSend,
			},
			{
				Name:      "ls",
				Usage:     "List recorded notifications, newest first",
				UsageText: "pulse notify ls",
				Action:    cmd.runLs,
			},
			{
				Name:      "clear",
				Usage:     "Delete the notification history",
				UsageText: "pulse notify clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *NotifyCmd) runSend(ctx context.Context, c *cli.Command) error {
	message := c.Args().First()
	if message == "" {
		return fmt.Errorf("missing message argument")
	}

	kind, err := notify.ParseKind(cmd.kind)
	if err != nil {
		return err
	}

	cmd.app.Center.ShowDefault(message, kind)
	return nil
}

func (cmd *NotifyCmd) runLs(ctx context.Context, c *cli.Command) error {
	items, err := cmd.app.Center.History()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "no notifications recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, n := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.Kind, n.Message, timex.RelTime(n.CreatedAt))
	}
	return w.Flush()
}

func (cmd *NotifyCmd) runClear(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Center.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	fmt.Println("history cleared")
	return nil
}
