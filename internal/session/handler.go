package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/interpreter"
	"github.com/RCorpy/presupuestatorvoice/internal/ipc"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
)

// Handle serves IPC commands against the running session.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	var (
		replies []ipc.Reply
		message string
		path    string
		err     error
	)

	switch req.Command {
	case ipc.CommandStatus:
	case ipc.CommandSay:
		if strings.TrimSpace(req.Text) == "" {
			return ipc.Failure(errors.New("say needs text"))
		}
		var steps []Step
		steps, err = c.Say(ctx, req.Text)
		replies = wireSteps(steps)
	case ipc.CommandPick:
		var reply interpreter.Reply
		reply, err = c.Pick(ctx, req.Text)
		replies = []ipc.Reply{wireReply(req.Text, reply)}
	case ipc.CommandInsert:
		var reply interpreter.Reply
		reply, err = c.InsertRow(ctx)
		message = reply.Message
	case ipc.CommandSelect:
		err = c.SelectRow(ctx, req.Row)
		message = fmt.Sprintf("Fila cambiada a: %d", req.Row)
	case ipc.CommandCancel:
		err = c.Cancel(ctx)
		message = "Comando cancelado"
	case ipc.CommandLoad:
		var rows []proforma.Row
		if rows, err = DocumentRows(req.Rows); err == nil {
			err = c.Load(ctx, rows)
		}
		message = fmt.Sprintf("Proforma cargada: %d filas", len(req.Rows))
	case ipc.CommandExport:
		path, err = c.Export(ctx)
		message = "Proforma exportada"
	case ipc.CommandStop:
		c.Stop()
		return ipc.Response{OK: true, Session: c.id, Message: "session stopping"}
	default:
		return ipc.Failure(fmt.Errorf("unknown command: %s", req.Command))
	}
	if err != nil {
		return ipc.Failure(err)
	}

	snap, err := c.Snapshot(ctx)
	if err != nil {
		return ipc.Failure(err)
	}
	resp := StatusResponse(snap)
	resp.Session = c.id
	resp.Message = message
	resp.Replies = replies
	resp.Path = path
	return resp
}

// StatusResponse renders a snapshot for the wire. ActiveRow is 1-based.
func StatusResponse(snap interpreter.Snapshot) ipc.Response {
	return ipc.Response{
		OK:         true,
		Mode:       string(snap.Mode),
		ActiveRow:  snap.ActiveRow + 1,
		Candidates: snap.Candidates,
		Rows:       WireRows(snap.Rows),
	}
}

// WireRows converts document rows to their wire form.
func WireRows(rows []proforma.Row) []ipc.Row {
	out := make([]ipc.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, ipc.Row{Kind: r.Kind.String(), Cols: r.Values()})
	}
	return out
}

// DocumentRows converts wire rows back into document rows.
func DocumentRows(rows []ipc.Row) ([]proforma.Row, error) {
	out := make([]proforma.Row, 0, len(rows))
	for i, r := range rows {
		kind, err := proforma.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		row := proforma.Row{Kind: kind}
		copy(row.Cols[:], r.Cols)
		out = append(out, row)
	}
	return out, nil
}

func wireSteps(steps []Step) []ipc.Reply {
	out := make([]ipc.Reply, 0, len(steps))
	for _, s := range steps {
		out = append(out, wireReply(s.Token, s.Reply))
	}
	return out
}

func wireReply(tok string, r interpreter.Reply) ipc.Reply {
	return ipc.Reply{Token: tok, Message: r.Message, Outcome: r.Outcome.String()}
}
