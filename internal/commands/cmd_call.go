package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/pulse/internal/api"
	"github.com/colonyops/pulse/internal/core/logging"
	"github.com/colonyops/pulse/internal/pulse"
	"github.com/colonyops/pulse/internal/tui/jsoncolor"
	"github.com/colonyops/pulse/pkg/iojson"
)

// CallCmd issues a one-off request through the orchestrator, with the
// configured timeout, classification, and retry behavior.
type CallCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	method string
	retry  bool
}

// NewCallCmd creates a new call command.
func NewCallCmd(flags *Flags, app *pulse.App) *CallCmd {
	return &CallCmd{flags: flags, app: app}
}

// Register adds the call command to the application.
func (cmd *CallCmd) Register(app *cli.Command) *cli.Command {
	reader := &iojson.FileReader[json.RawMessage]{}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "call",
		Usage:     "Issue a request against the configured backend",
		UsageText: "pulse call [--method POST] [--retry] <path>",
		Description: `Sends a request through the request pipeline and prints the JSON body.

The path is resolved against the configured base URL; absolute URLs pass
through unchanged. POST bodies are read with -f or from stdin.`,
		Flags: []cli.Flag{
			reader.Flag(),
			&cli.StringFlag{
				Name:        "method",
				Aliases:     []string{"X"},
				Usage:       "HTTP method",
				Value:       http.MethodGet,
				Destination: &cmd.method,
			},
			&cli.BoolFlag{
				Name:        "retry",
				Usage:       "retry transient failures with exponential backoff",
				Destination: &cmd.retry,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.run(ctx, c, reader)
		},
	})

	return app
}

func (cmd *CallCmd) run(ctx context.Context, c *cli.Command, reader *iojson.FileReader[json.RawMessage]) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing path argument")
	}

	ctx = logging.WithCommand(ctx, "call")

	method := strings.ToUpper(cmd.method)
	var body []byte
	if method != http.MethodGet && method != http.MethodHead {
		raw, err := reader.Read()
		if err != nil {
			return err
		}
		body = raw
	}

	request := cmd.app.Client.Request
	if cmd.retry {
		request = cmd.app.Client.RequestWithRetry
	}

	result, err := request(ctx, method, path, body, nil)
	if err != nil {
		return describeRequestError(err)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(jsoncolor.Colorize(result))
		return nil
	}
	return iojson.Write(result)
}

// describeRequestError maps the error taxonomy to actionable CLI output.
func describeRequestError(err error) error {
	switch {
	case api.IsTimeout(err):
		return fmt.Errorf("request timed out; raise api.timeout or check the backend: %w", err)
	case api.IsDecode(err):
		return fmt.Errorf("backend returned a non-JSON body: %w", err)
	case api.IsTransport(err):
		return fmt.Errorf("could not reach the backend: %w", err)
	}
	if statusErr, ok := api.IsStatus(err); ok {
		return fmt.Errorf("backend rejected the request: %s", statusErr.Status)
	}
	return err
}
