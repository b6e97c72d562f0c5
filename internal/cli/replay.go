package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RCorpy/presupuestatorvoice/internal/session"
)

func newReplayCommand(s *state) *cobra.Command {
	var (
		doExport bool
		quiet    bool
	)
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Feed a file of command words through a fresh session",
		Long: `replay reads FILE line by line into a new session, as if each line had
been typed at the repl. Blank lines and lines starting with # are skipped.
The final proforma is printed and optionally exported.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runReplay(cmd.Context(), args[0], doExport, quiet)
		},
	}
	cmd.Flags().BoolVar(&doExport, "export", false, "write the final proforma to XLSX")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final proforma")
	return cmd
}

func (s *state) runReplay(ctx context.Context, path string, doExport, quiet bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctrl, _, err := s.newController(ctx)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()
	defer func() {
		ctrl.Stop()
		<-done
	}()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		steps, err := ctrl.Say(ctx, line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		if !quiet {
			printSteps(s.streams.Out, steps)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := writeState(s.streams.Out, session.StatusResponse(snap)); err != nil {
		return err
	}

	if !doExport {
		return nil
	}
	out, err := ctrl.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.streams.Out, out)
	return nil
}
