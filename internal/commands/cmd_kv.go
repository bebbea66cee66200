package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/pulse/internal/data/stores"
	"github.com/colonyops/pulse/internal/pulse"
	"github.com/colonyops/pulse/internal/tui/jsoncolor"
	"github.com/colonyops/pulse/pkg/iojson"
)

// KvCmd exposes the persistent store on the command line.
type KvCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	ttl   time.Duration
	force bool
}

// NewKvCmd creates a new kv command group.
func NewKvCmd(flags *Flags, app *pulse.App) *KvCmd {
	return &KvCmd{flags: flags, app: app}
}

// Register adds the kv command group to the application.
func (cmd *KvCmd) Register(app *cli.Command) *cli.Command {
	reader := &iojson.FileReader[json.RawMessage]{}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "kv",
		Usage:     "Inspect and edit the persistent store",
		UsageText: "pulse kv <get|set|ls|rm|clear> [args]",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the value stored at a key",
				UsageText: "pulse kv get <key>",
				Action:    cmd.runGet,
			},
			{
				Name:      "set",
				Usage:     "Store a JSON value at a key",
				UsageText: "pulse kv set <key> [--ttl 24h] [-f value.json]",
				Flags: []cli.Flag{
					reader.Flag(),
					&cli.DurationFlag{
						Name:        "ttl",
						Usage:       "expire the entry after this duration (0 = keep forever)",
						Destination: &cmd.ttl,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.runSet(ctx, c, reader)
				},
			},
			{
				Name:      "ls",
				Usage:     "List live keys",
				UsageText: "pulse kv ls",
				Action:    cmd.runLs,
			},
			{
				Name:      "rm",
				Usage:     "Delete a key",
				UsageText: "pulse kv rm <key>",
				Action:    cmd.runRm,
			},
			{
				Name:      "clear",
				Usage:     "Delete every entry in the store",
				UsageText: "pulse kv clear [--force]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Aliases:     []string{"f"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *KvCmd) runGet(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing key argument")
	}

	entry, err := cmd.app.KV.GetRaw(ctx, key)
	if err != nil {
		if stores.IsNotFoundError(err) {
			return fmt.Errorf("key %q not found", key)
		}
		return fmt.Errorf("get %q: %w", key, err)
	}

	// Colorize only when writing to a terminal so output stays pipeable.
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(jsoncolor.Colorize(entry.Value))
		return nil
	}
	return iojson.Write(json.RawMessage(entry.Value))
}

func (cmd *KvCmd) runSet(ctx context.Context, c *cli.Command, reader *iojson.FileReader[json.RawMessage]) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing key argument")
	}

	value, err := reader.Read()
	if err != nil {
		return err
	}

	if cmd.ttl > 0 {
		err = cmd.app.KV.SetTTL(ctx, key, value, cmd.ttl)
	} else {
		err = cmd.app.KV.Set(ctx, key, value)
	}
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	fmt.Printf("stored %q\n", key)
	return nil
}

func (cmd *KvCmd) runLs(ctx context.Context, c *cli.Command) error {
	keys, err := cmd.app.KV.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Fprintln(os.Stderr, "store is empty")
		return nil
	}

	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func (cmd *KvCmd) runRm(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing key argument")
	}

	if err := cmd.app.KV.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	fmt.Printf("deleted %q\n", key)
	return nil
}

func (cmd *KvCmd) runClear(ctx context.Context, c *cli.Command) error {
	if !cmd.force {
		var confirmed bool
		err := huh.NewConfirm().
			Title("Clear the store?").
			Description("Every key will be deleted. This cannot be undone.").
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, "clear cancelled")
			return nil
		}
	}

	if err := cmd.app.KV.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	fmt.Println("store cleared")
	return nil
}
