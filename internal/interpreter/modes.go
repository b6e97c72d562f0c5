package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/fsm"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
	"github.com/RCorpy/presupuestatorvoice/internal/resolver"
	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

func (in *Interpreter) handleIdle(tok string) Reply {
	switch {
	case token.IsStructural(tok):
		return in.applyStructural(tok)
	case in.isTrigger(tok):
		return in.enterProduct(tok)
	case tok == token.Row:
		in.fire(fsm.EventRow)
		return applied("Comando FILA activo, esperando valor")
	case tok == token.Quantity, tok == token.Price:
		return in.enterNumeric(tok)
	case tok == token.Next:
		in.advance()
		in.fire(fsm.EventNext)
		return applied(rowMessage("Fila siguiente", in.active))
	}

	if name, ok := in.names[tok]; ok {
		return in.assignProduct(name, "asignado")
	}
	return failed(OutcomeUnrecognized, "Palabra no reconocida: "+tok)
}

func (in *Interpreter) enterProduct(trigger string) Reply {
	in.numeric = ""
	in.fire(fsm.EventProduct)
	in.resolver.Restart()

	res := in.resolver.AddToken(trigger)
	if res.Status == resolver.StatusPartial {
		return applied(fmt.Sprintf("Modo producto activado: %s (%d candidatos)", res, res.Count))
	}
	return applied(fmt.Sprintf("Modo producto activado (%d candidatos)", res.Count))
}

func (in *Interpreter) handleProduct(tok string) Reply {
	if tok == token.Next {
		name, err := in.resolver.Confirm()
		if err != nil {
			return failed(OutcomeAmbiguous, fmt.Sprintf("No se puede confirmar, candidatos: %d", in.resolver.Len()))
		}
		reply := in.assignProduct(name, "confirmado")
		in.fire(fsm.EventConfirm)
		in.resolver.Clear()
		return reply
	}

	res := in.resolver.AddToken(tok)
	if res.Status == resolver.StatusInvalid {
		return failed(OutcomeNoMatch, "Palabra no válida para producto: "+tok)
	}
	return applied(fmt.Sprintf("Producto parcial: %s (%d candidatos)", res, res.Count))
}

func (in *Interpreter) assignProduct(name, verb string) Reply {
	if in.activeRow().Kind != proforma.KindProduct {
		return failed(OutcomeRejected, rowMessage("No es una fila de producto", in.active))
	}
	in.doc.SetProduct(in.active, name)
	return applied(fmt.Sprintf("Producto %s %s", name, verb))
}

func (in *Interpreter) enterNumeric(keyword string) Reply {
	in.numeric = ""
	if keyword == token.Price {
		in.fire(fsm.EventPrice)
	} else {
		in.fire(fsm.EventQuantity)
	}
	return applied(fmt.Sprintf("Comando %s activo, esperando valor", keyword))
}

func (in *Interpreter) handleNumeric(tok string) Reply {
	switch {
	case tok == token.Row:
		in.numeric = ""
		in.fire(fsm.EventRow)
		return applied("Comando FILA activo, esperando valor")
	case in.isTrigger(tok):
		return in.enterProduct(tok)
	case tok == token.Quantity, tok == token.Price:
		return in.enterNumeric(tok)
	case token.IsStructural(tok):
		in.numeric = ""
		return in.applyStructural(tok)
	case tok == token.Next:
		return in.nextField()
	case token.IsNumeric(tok):
		return in.appendNumeric(tok)
	}
	return failed(OutcomeInvalidNumber, fmt.Sprintf("Valor inválido para %s: %s", in.fieldName(), tok))
}

// nextField moves QUANTITY on to PRICE on the same row, or finishes PRICE by
// advancing to the next usable row. The value is already written.
func (in *Interpreter) nextField() Reply {
	skipped := in.numeric == ""
	in.numeric = ""

	if in.mode == fsm.ModeQuantity {
		in.fire(fsm.EventNext)
		if skipped {
			return applied("Cantidad omitida, esperando precio")
		}
		return applied("Cantidad confirmada, esperando precio")
	}

	in.advance()
	in.fire(fsm.EventNext)
	return applied(rowMessage("Fila siguiente", in.active))
}

func (in *Interpreter) appendNumeric(tok string) Reply {
	if in.activeRow().Kind != proforma.KindProduct {
		return failed(OutcomeRejected, fmt.Sprintf("%s solo aplica a filas de producto", in.fieldName()))
	}
	if strings.Contains(in.numeric, token.Separator) && strings.Contains(tok, token.Separator) ||
		strings.Count(tok, token.Separator) > 1 {
		return failed(OutcomeInvalidNumber, "Separador decimal ya presente: "+in.numeric)
	}

	in.numeric += tok
	if tok == token.Separator {
		return applied(fmt.Sprintf("%s: %s", in.fieldName(), in.numeric))
	}

	value, err := proforma.ParseNumber(in.numeric)
	if err != nil {
		return failed(OutcomeInvalidNumber, fmt.Sprintf("%s inválida: %s", in.fieldName(), in.numeric))
	}
	formatted := proforma.FormatNumber(value)
	if in.mode == fsm.ModePrice {
		in.doc.SetPrice(in.active, formatted)
	} else {
		in.doc.SetQuantity(in.active, formatted)
	}
	return applied(fmt.Sprintf("%s: %s", in.fieldName(), formatted))
}

func (in *Interpreter) fieldName() string {
	if in.mode == fsm.ModePrice {
		return "Precio"
	}
	return "Cantidad"
}

func (in *Interpreter) handleRow(tok string) Reply {
	if token.IsStructural(tok) {
		return in.applyStructural(tok)
	}
	defer in.fire(fsm.EventRowDone)

	if tok == token.NewRow {
		in.doc.Add(proforma.BlankProduct())
		in.active = in.doc.Count() - 1
		return applied(rowMessage("Fila nueva creada", in.active))
	}

	if !token.IsDigits(tok) {
		return failed(OutcomeUnrecognized, "Valor inválido para FILA: "+tok)
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 || n > in.doc.Count() {
		return failed(OutcomeOutOfRange, "Número de fila inválido: "+tok)
	}
	in.active = n - 1
	return applied(rowMessage("Fila cambiada a", in.active))
}

// applyStructural rewrites the active row's kind or deletes it.
func (in *Interpreter) applyStructural(tok string) Reply {
	defer in.fire(fsm.EventStructural)

	if tok == token.Delete {
		removed := in.active
		in.doc.Remove(in.active)
		in.ensureRows()
		return applied(rowMessage("Fila borrada", removed))
	}

	kind := structuralKind(tok)
	converted := in.active
	in.doc.Set(in.active, proforma.Row{Kind: kind})
	in.advance()
	return applied(fmt.Sprintf("Fila %d convertida en %s, activa %d", converted+1, kind, in.active+1))
}

func structuralKind(tok string) proforma.Kind {
	switch tok {
	case token.Title:
		return proforma.KindTitle
	case token.Info:
		return proforma.KindInfo
	default:
		return proforma.KindEmpty
	}
}

func rowMessage(prefix string, index int) string {
	return fmt.Sprintf("%s: %d", prefix, index+1)
}
