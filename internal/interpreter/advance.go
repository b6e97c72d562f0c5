package interpreter

import "github.com/RCorpy/presupuestatorvoice/internal/proforma"

// advance moves the active row to the next usable row.
//
// An INFO row must be followed by an EMPTY spacer; one is inserted when the
// following row is missing or of another kind. Consecutive EMPTY rows are
// skipped, and a blank product row is appended when the scan runs off the end.
func (in *Interpreter) advance() {
	pos := in.active
	if row, ok := in.doc.Get(pos); ok && row.Kind == proforma.KindInfo {
		if next, ok := in.doc.Get(pos + 1); !ok || next.Kind != proforma.KindEmpty {
			in.doc.Insert(pos+1, proforma.Empty())
		}
		pos++
	}

	i := pos + 1
	for ; i < in.doc.Count(); i++ {
		row, _ := in.doc.Get(i)
		if row.Kind != proforma.KindEmpty {
			break
		}
	}
	if i >= in.doc.Count() {
		in.doc.Add(proforma.BlankProduct())
		i = in.doc.Count() - 1
	}
	in.active = i
}
