// Package interpreter turns a stream of recognized words into edits of a
// proforma document.
//
// The interpreter is modal. IDLE dispatches command words, PRODUCT feeds a
// resolver until one catalog name remains, QUANTITY and PRICE accumulate
// spoken digits into the active row with a live preview, and ROW selects or
// creates the active row. CANCELAR returns to IDLE from anywhere.
//
// An Interpreter is not safe for concurrent use. Callers serialize tokens.
package interpreter

import (
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/fsm"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
	"github.com/RCorpy/presupuestatorvoice/internal/resolver"
	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

// Catalog is the read-only product source.
type Catalog interface {
	proforma.PriceLookup
	Names() []string
}

// DefaultTriggers are the words that open product matching.
var DefaultTriggers = []string{token.Product, "KIT"}

// Options configures a new Interpreter.
type Options struct {
	// Triggers open PRODUCT mode. Empty means DefaultTriggers.
	Triggers []string
	// Annotator supplies INFO rows inserted after assigned products.
	Annotator proforma.Annotator
	// Rows seeds the document. Empty means one blank product row.
	Rows []proforma.Row
}

type Interpreter struct {
	doc      *proforma.Document
	resolver *resolver.Resolver
	names    map[string]string
	triggers map[string]struct{}

	mode    fsm.Mode
	active  int
	numeric string
}

// New builds an interpreter over cat. cat may be nil for an empty catalog.
func New(cat Catalog, opts Options) *Interpreter {
	var names []string
	var prices proforma.PriceLookup
	if cat != nil {
		names = cat.Names()
		prices = cat
	}

	in := &Interpreter{
		doc:      proforma.NewDocument(prices, opts.Annotator),
		resolver: resolver.New(names),
		names:    make(map[string]string, len(names)),
		triggers: make(map[string]struct{}),
		mode:     fsm.ModeIdle,
	}
	for _, name := range names {
		in.names[token.Fold(strings.TrimSpace(name))] = name
	}

	triggers := opts.Triggers
	if len(triggers) == 0 {
		triggers = DefaultTriggers
	}
	for _, t := range triggers {
		if t = token.Normalize(t); t != "" {
			in.triggers[t] = struct{}{}
		}
	}

	in.resolver.Clear()
	in.doc.Replace(opts.Rows)
	in.ensureRows()
	return in
}

// Handle processes one word and reports what happened.
func (in *Interpreter) Handle(word string) Reply {
	in.ensureRows()

	tok := token.Normalize(word)
	if tok == "" {
		return failed(OutcomeUnrecognized, "Palabra vacía")
	}
	if tok == token.Cancel {
		in.Reset()
		return failed(OutcomeCancelled, "Comando cancelado")
	}

	switch in.mode {
	case fsm.ModeProduct:
		return in.handleProduct(tok)
	case fsm.ModeQuantity, fsm.ModePrice:
		return in.handleNumeric(tok)
	case fsm.ModeRow:
		return in.handleRow(tok)
	default:
		return in.handleIdle(tok)
	}
}

// HandleToken processes one word and returns only the status message.
func (in *Interpreter) HandleToken(word string) string {
	return in.Handle(word).Message
}

// Reset clears mode, numeric entry and product matching. The document and the
// active row are kept.
func (in *Interpreter) Reset() {
	in.fire(fsm.EventCancel)
	in.numeric = ""
	in.resolver.Clear()
}

// Mode returns the current mode.
func (in *Interpreter) Mode() fsm.Mode {
	return in.mode
}

// ActiveRow returns the zero-based active row index.
func (in *Interpreter) ActiveRow() int {
	return in.active
}

// Candidates returns the product names still matching, empty outside PRODUCT.
func (in *Interpreter) Candidates() []string {
	return in.resolver.Candidates()
}

// ProductBuffer returns the tokens accepted so far in PRODUCT mode.
func (in *Interpreter) ProductBuffer() []string {
	return in.resolver.Buffer()
}

// NumericBuffer returns the digits typed so far in QUANTITY or PRICE mode.
func (in *Interpreter) NumericBuffer() string {
	return in.numeric
}

// Rows returns a copy of the document rows in order.
func (in *Interpreter) Rows() []proforma.Row {
	return in.doc.Rows()
}

// Load replaces the document, moves to the first row and resets.
func (in *Interpreter) Load(rows []proforma.Row) {
	in.doc.Replace(rows)
	in.active = 0
	in.ensureRows()
	in.Reset()
}

// SelectRow makes index the active row when it is in range.
func (in *Interpreter) SelectRow(index int) bool {
	if index < 0 || index >= in.doc.Count() {
		return false
	}
	in.active = index
	return true
}

// PickProduct assigns name to the active row as a confirmed match would and
// returns to IDLE.
func (in *Interpreter) PickProduct(name string) Reply {
	in.ensureRows()
	canonical, ok := in.names[token.Fold(strings.TrimSpace(name))]
	if !ok {
		return failed(OutcomeNoMatch, "Producto desconocido: "+name)
	}
	reply := in.assignProduct(canonical, "asignado")
	in.Reset()
	return reply
}

// InsertProductRow inserts a blank product row after the active one and
// moves to it.
func (in *Interpreter) InsertProductRow() Reply {
	in.ensureRows()
	in.doc.Insert(in.active+1, proforma.BlankProduct())
	in.active++
	in.Reset()
	return applied(rowMessage("Fila nueva creada", in.active))
}

// Snapshot is a point-in-time copy of the interpreter state.
type Snapshot struct {
	Mode          fsm.Mode
	ActiveRow     int
	NumericBuffer string
	ProductBuffer []string
	Candidates    []string
	Rows          []proforma.Row
}

func (in *Interpreter) Snapshot() Snapshot {
	return Snapshot{
		Mode:          in.mode,
		ActiveRow:     in.active,
		NumericBuffer: in.numeric,
		ProductBuffer: in.resolver.Buffer(),
		Candidates:    in.resolver.Candidates(),
		Rows:          in.doc.Rows(),
	}
}

func (in *Interpreter) fire(event fsm.Event) {
	next, err := fsm.Transition(in.mode, event)
	if err != nil {
		return
	}
	in.mode = next
}

// ensureRows keeps the document non-empty and the active row in range.
func (in *Interpreter) ensureRows() {
	if in.doc.Count() == 0 {
		in.doc.Add(proforma.BlankProduct())
	}
	switch {
	case in.active < 0:
		in.active = 0
	case in.active >= in.doc.Count():
		in.active = in.doc.Count() - 1
	}
}

func (in *Interpreter) isTrigger(tok string) bool {
	_, ok := in.triggers[tok]
	return ok
}

func (in *Interpreter) activeRow() proforma.Row {
	row, _ := in.doc.Get(in.active)
	return row
}
