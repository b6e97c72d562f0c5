package session

import "github.com/RCorpy/presupuestatorvoice/internal/token"

// repeatFilter suppresses the stutter of streaming recognizers that emit the
// same word twice in a row.
type repeatFilter struct {
	enabled bool
	allowed map[string]struct{}
	last    string
}

func newRepeatFilter(enabled bool, allowed []string) *repeatFilter {
	f := &repeatFilter{enabled: enabled, allowed: make(map[string]struct{}, len(allowed))}
	for _, w := range allowed {
		if tok := token.Normalize(w); tok != "" {
			f.allowed[tok] = struct{}{}
		}
	}
	return f
}

func (f *repeatFilter) allow(tok string) bool {
	prev := f.last
	f.last = tok
	if !f.enabled || tok != prev || token.IsNumeric(tok) {
		return true
	}
	_, ok := f.allowed[tok]
	return ok
}

func (f *repeatFilter) reset() {
	f.last = ""
}
