package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a command's JSON input from the -f flag or stdin.
// A path of "-" selects stdin explicitly, matching standard CLI usage.
type FileReader[T any] struct {
	path string
}

// Flag returns the -f/--file flag wired to this reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       `path to JSON file ("-" or omitted reads stdin)`,
		Destination: &fr.path,
	}
}

// Read decodes the input into T. When no file is given and stdin is a
// terminal there is no input to read, which is reported as an error
// rather than blocking on the terminal.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var reader io.Reader
	switch fr.path {
	case "", "-":
		if fr.path == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use -f or pipe JSON")
		}
		reader = os.Stdin
	default:
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
