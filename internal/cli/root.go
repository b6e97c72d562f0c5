// Package cli defines the presupuestator command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RCorpy/presupuestatorvoice/internal/config"
	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
	"github.com/RCorpy/presupuestatorvoice/internal/logging"
	"github.com/RCorpy/presupuestatorvoice/internal/version"
)

const binaryName = "presupuestator"

// skipSetup marks commands that run without config or logging.
const skipSetup = "skip-setup"

// Streams are the process stdio handles.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// UsageError marks bad invocations: unknown commands, flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// IsUsage reports whether err came from a bad invocation.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}

// ErrNoSession is returned by commands that need a running session.
var ErrNoSession = errors.New("no active presupuestator session")

// state is shared by every command of one invocation.
type state struct {
	streams Streams

	configPath string
	socketPath string
	verbose    bool
	timeout    time.Duration

	logger  *slog.Logger
	loaded  config.Loaded
	closers []func() error
}

// Execute runs one invocation. logger overrides the JSONL log file when set.
// Errors are printed to streams.Err before being returned.
func Execute(ctx context.Context, args []string, streams Streams, logger *slog.Logger) error {
	s := &state{streams: streams, logger: logger}
	defer s.close()

	root := newRoot(s)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	fmt.Fprintf(streams.Err, "error: %v\n", err)
	if IsUsage(err) {
		fmt.Fprintf(streams.Err, "\n%s", root.UsageString())
	}
	if s.logger != nil {
		s.logger.Error("command failed", "error", err.Error())
	}
	return err
}

func newRoot(s *state) *cobra.Command {
	root := &cobra.Command{
		Use:   binaryName,
		Short: "Build proforma quotations from spoken or typed Spanish commands",
		Long: `presupuestator turns a stream of words (CANTIDAD, PRECIO, FILA, PRODUCTO,
SIGUIENTE, CANCELAR, ...) into a row-oriented proforma that can be exported
to XLSX. A session is started with "repl"; other processes feed it through a
unix socket with "say".`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, skip := cmd.Annotations[skipSetup]; skip || cmd.Name() == "help" || cmd == cmd.Root() {
				return nil
			}
			return s.setup(cmd.Name())
		},
	}
	root.SetIn(s.streams.In)
	root.SetOut(s.streams.Out)
	root.SetErr(s.streams.Err)
	root.SetVersionTemplate(version.String() + "\n")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file path (default $XDG_CONFIG_HOME/presupuestator/config.jsonc)")
	flags.StringVar(&s.socketPath, "socket", "", "session socket path (default $XDG_RUNTIME_DIR/presupuestator.sock)")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "log every processed token")
	flags.DurationVar(&s.timeout, "timeout", 2*time.Second, "timeout for requests to a running session")

	root.AddCommand(
		newReplCommand(s),
		newReplayCommand(s),
		newSayCommand(s),
		newStatusCommand(s),
		newExportCommand(s),
		newPickCommand(s),
		newSelectCommand(s),
		newInsertCommand(s),
		newCancelCommand(s),
		newStopCommand(s),
		newGenerateCommand(s),
		newCatalogCommand(s),
		newGrammarCommand(s),
		newDevicesCommand(s),
		newDoctorCommand(s),
		newVersionCommand(),
	)
	return root
}

// setup opens the log and loads the config once per invocation.
func (s *state) setup(command string) error {
	if s.logger == nil {
		rt, err := logging.New(logging.Options{Verbose: s.verbose})
		if err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}
		s.closers = append(s.closers, rt.Close)
		s.logger = rt.Logger
	}

	loaded, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	for _, w := range loaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(s.streams.Err, "warning: %s\n", msg)
		s.logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}
	s.loaded = loaded

	s.logger.Info("command start", "command", command, "config", loaded.Path, "config_exists", loaded.Exists)
	return nil
}

func (s *state) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func (s *state) socket() (string, error) {
	if p := strings.TrimSpace(s.socketPath); p != "" {
		return p, nil
	}
	return ipc.RuntimeSocketPath()
}

func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
