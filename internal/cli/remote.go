package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
)

// forward sends req to the running session.
func (s *state) forward(ctx context.Context, req ipc.Request) (ipc.Response, error) {
	path, err := s.socket()
	if err != nil {
		return ipc.Response{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	resp, err := ipc.Send(ctx, path, req, s.timeout)
	if err != nil {
		if ipc.IsNotRunning(err) {
			return ipc.Response{}, ErrNoSession
		}
		return ipc.Response{}, fmt.Errorf("forward command %q: %w", req.Command, err)
	}
	if !resp.OK {
		return resp, errors.New(resp.Error)
	}
	s.logger.Debug("command forwarded", "command", req.Command, "session", resp.Session)
	return resp, nil
}

func newSayCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "say WORDS...",
		Short: "Send command words to the running session",
		Example: `  presupuestator say producto epoxi verde siguiente
  presupuestator say fila dos cantidad tres coma cinco siguiente`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.forward(cmd.Context(), ipc.Request{Command: ipc.CommandSay, Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			writeReplies(s.streams.Out, resp.Replies)
			fmt.Fprintf(s.streams.Out, "modo=%s fila=%d\n", resp.Mode, resp.ActiveRow)
			return nil
		},
	}
}

func newStatusCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the running session's proforma, or idle",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := s.forward(cmd.Context(), ipc.Request{Command: ipc.CommandStatus})
			if errors.Is(err, ErrNoSession) {
				fmt.Fprintln(s.streams.Out, "idle")
				return nil
			}
			if err != nil {
				return err
			}
			return writeState(s.streams.Out, resp)
		},
	}
}

func newExportCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the running session's proforma to XLSX",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := s.forward(cmd.Context(), ipc.Request{Command: ipc.CommandExport})
			if err != nil {
				return err
			}
			fmt.Fprintln(s.streams.Out, resp.Path)
			return nil
		},
	}
}

func newPickCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "pick PRODUCT...",
		Short: "Assign a catalog product to the active row",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.forward(cmd.Context(), ipc.Request{Command: ipc.CommandPick, Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			writeReplies(s.streams.Out, resp.Replies)
			return nil
		},
	}
}

func newSelectCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "select ROW",
		Short: "Make a 1-based row active",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return &UsageError{Err: fmt.Errorf("row must be a number: %q", args[0])}
			}
			return s.forwardMessage(cmd.Context(), ipc.Request{Command: ipc.CommandSelect, Row: row})
		},
	}
}

func newInsertCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "insert",
		Short: "Insert a blank product row after the active one",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.forwardMessage(cmd.Context(), ipc.Request{Command: ipc.CommandInsert})
		},
	}
}

func newCancelCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the command in progress",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.forwardMessage(cmd.Context(), ipc.Request{Command: ipc.CommandCancel})
		},
	}
}

func newStopCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "End the running session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.forwardMessage(cmd.Context(), ipc.Request{Command: ipc.CommandStop})
		},
	}
}

func (s *state) forwardMessage(ctx context.Context, req ipc.Request) error {
	resp, err := s.forward(ctx, req)
	if err != nil {
		return err
	}
	if resp.Message != "" {
		fmt.Fprintln(s.streams.Out, resp.Message)
	}
	return nil
}
