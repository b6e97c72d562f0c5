// Package app runs one CLI invocation and maps its outcome to an exit code.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/RCorpy/presupuestatorvoice/internal/cli"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Logger replaces the JSONL log file when set.
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdin: os.Stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	stdin := r.Stdin
	if stdin == nil {
		stdin = eofReader{}
	}
	err := cli.Execute(ctx, args, cli.Streams{In: stdin, Out: r.Stdout, Err: r.Stderr}, r.Logger)
	switch {
	case err == nil:
		return ExitOK
	case cli.IsUsage(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
