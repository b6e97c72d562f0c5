package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
	"github.com/RCorpy/presupuestatorvoice/internal/session"
)

const replHelp = `Escriba palabras de comando (p. ej. "fila dos cantidad tres siguiente").
Órdenes:
  /estado          muestra la proforma
  /exportar        escribe el XLSX
  /elegir NOMBRE   asigna un producto a la fila activa
  /insertar        inserta una fila de producto tras la activa
  /salir           termina la sesión
`

func newReplCommand(s *state) *cobra.Command {
	var noSocket bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start a session reading command words from stdin",
		Long: `repl starts a session and reads one line of words at a time from stdin.
Unless --no-socket is given, the session also listens on the runtime socket so
"say", "status" and "export" from other processes reach it. End of input
stops the session.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runRepl(cmd.Context(), noSocket)
		},
	}
	cmd.Flags().BoolVar(&noSocket, "no-socket", false, "do not accept commands from other processes")
	return cmd
}

func (s *state) runRepl(ctx context.Context, noSocket bool) error {
	ctrl, store, err := s.newController(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if !noSocket {
		path, err := s.socket()
		if err != nil {
			return err
		}
		listener, err := ipc.Acquire(ctx, path, 180*time.Millisecond, 8)
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(path) }()
		fmt.Fprintf(s.streams.Err, "sesión %s escuchando en %s\n", ctrl.ID(), path)
		g.Go(func() error { return ipc.Serve(gctx, listener, ctrl) })
	}

	if s.loaded.Config.Layout.Watch && store.Path() != "" {
		g.Go(func() error {
			if err := store.Watch(gctx, s.logger); err != nil {
				s.logger.Warn("layout watch stopped", "error", err.Error())
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		if err := ctrl.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer ctrl.Stop()
		return s.readLines(gctx, ctrl)
	})

	return g.Wait()
}

// readLines feeds stdin to the session until EOF, /salir or ctx ends. The
// scanner runs on its own goroutine because stdin reads cannot be cancelled.
func (s *state) readLines(ctx context.Context, ctrl *session.Controller) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.streams.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := s.replLine(ctx, ctrl, line)
			if errors.Is(err, session.ErrStopped) || errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.streams.Err, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func (s *state) replLine(ctx context.Context, ctrl *session.Controller, line string) (bool, error) {
	line = strings.TrimSpace(line)
	out := s.streams.Out

	if !strings.HasPrefix(line, "/") {
		if line == "" {
			return false, nil
		}
		steps, err := ctrl.Say(ctx, line)
		if err != nil {
			return false, err
		}
		printSteps(out, steps)
		return false, nil
	}

	command, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	switch strings.ToLower(command) {
	case "salir", "quit":
		return true, nil
	case "estado", "status":
		snap, err := ctrl.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		return false, writeState(out, session.StatusResponse(snap))
	case "exportar", "export":
		path, err := ctrl.Export(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, path)
	case "elegir", "pick":
		reply, err := ctrl.Pick(ctx, arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, reply.Message)
	case "insertar", "insert":
		reply, err := ctrl.InsertRow(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, reply.Message)
	default:
		fmt.Fprint(out, replHelp)
	}
	return false, nil
}

func printSteps(w io.Writer, steps []session.Step) {
	for _, st := range steps {
		fmt.Fprintf(w, "%s: %s\n", st.Token, st.Reply.Message)
	}
}
