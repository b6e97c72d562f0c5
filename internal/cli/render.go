package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
)

const maxCandidates = 10

// writeRows prints the document as an aligned table. active is 1-based; zero
// marks no row.
func writeRows(w io.Writer, rows []ipc.Row, active int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t#\tTIPO\tKITS\tPRODUCTO\tCANTIDAD\tPRECIO\tTOTAL")
	for i, r := range rows {
		mark := ""
		if i+1 == active {
			mark = ">"
		}
		cols := make([]any, 5)
		for c := range cols {
			if c < len(r.Cols) {
				cols[c] = r.Cols[c]
			} else {
				cols[c] = ""
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n", append([]any{mark, i + 1, r.Kind}, cols...)...)
	}
	return tw.Flush()
}

func writeReplies(w io.Writer, replies []ipc.Reply) {
	for _, r := range replies {
		fmt.Fprintf(w, "%s: %s\n", r.Token, r.Message)
	}
}

// writeState prints the mode line, candidates and the table.
func writeState(w io.Writer, resp ipc.Response) error {
	fmt.Fprintf(w, "modo=%s fila=%d\n", resp.Mode, resp.ActiveRow)
	if n := len(resp.Candidates); n > 0 {
		fmt.Fprintf(w, "candidatos (%d):\n", n)
		for _, c := range resp.Candidates[:min(n, maxCandidates)] {
			fmt.Fprintf(w, "  %s\n", c)
		}
		if n > maxCandidates {
			fmt.Fprintf(w, "  ... y %d más\n", n-maxCandidates)
		}
	}
	return writeRows(w, resp.Rows, resp.ActiveRow)
}
