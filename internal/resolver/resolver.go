// Package resolver narrows a set of catalog product names token by token until
// a single product remains.
package resolver

import (
	"fmt"
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

// Status classifies the outcome of one AddToken call.
type Status int

const (
	// StatusPartial means the token was kept and candidates were narrowed.
	StatusPartial Status = iota + 1
	// StatusInvalid means no candidate contains the token; it was rolled back.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusPartial:
		return "partial"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result reports the resolver state after one AddToken call.
type Result struct {
	Status Status
	Token  string
	Buffer []string
	Count  int
}

// AmbiguousError is returned by Confirm while more or fewer than one candidate remains.
type AmbiguousError struct {
	Count int
}

func (e *AmbiguousError) Error() string {
	if e.Count == 0 {
		return "no product candidates"
	}
	return fmt.Sprintf("%d product candidates remain", e.Count)
}

type entry struct {
	name  string
	terms map[string]struct{}
}

// Resolver holds the catalog term index, the confirmed token buffer and the
// current candidate set. The zero value has an empty catalog.
type Resolver struct {
	catalog    []entry
	buffer     []string
	candidates []string
}

// New builds a resolver over names and starts a fresh match.
func New(names []string) *Resolver {
	r := &Resolver{}
	r.Start(names)
	return r
}

// Start indexes names and resets the match so every name is a candidate.
func (r *Resolver) Start(names []string) {
	r.catalog = make([]entry, 0, len(names))
	for _, name := range names {
		r.catalog = append(r.catalog, entry{name: name, terms: termSet(token.Terms(name))})
	}
	r.Restart()
}

// Restart clears the buffer and restores the full catalog as candidates.
func (r *Resolver) Restart() {
	r.buffer = r.buffer[:0]
	r.candidates = make([]string, 0, len(r.catalog))
	for _, e := range r.catalog {
		r.candidates = append(r.candidates, e.name)
	}
}

// Clear drops the buffer and the candidate set without touching the index.
func (r *Resolver) Clear() {
	r.buffer = r.buffer[:0]
	r.candidates = nil
}

// AddToken tentatively appends tok to the buffer and re-derives candidates
// from the full catalog. When nothing matches the token is rolled back and
// the previous candidate set is kept.
//
// tok is split with the same rule used for names, so a typed "7043" behaves
// like the spoken digits 7, 0, 4, 3 and is rolled back as one unit.
func (r *Resolver) AddToken(tok string) Result {
	terms := token.Terms(tok)
	if len(terms) == 0 {
		return r.result(StatusInvalid, tok)
	}

	tentative := make([]string, 0, len(r.buffer)+len(terms))
	tentative = append(tentative, r.buffer...)
	tentative = append(tentative, terms...)

	matches := r.match(tentative)
	if len(matches) == 0 {
		return r.result(StatusInvalid, tok)
	}

	r.buffer = tentative
	r.candidates = matches
	return r.result(StatusPartial, tok)
}

// Confirm returns the single remaining candidate.
func (r *Resolver) Confirm() (string, error) {
	if len(r.candidates) != 1 {
		return "", &AmbiguousError{Count: len(r.candidates)}
	}
	return r.candidates[0], nil
}

// Candidates returns a copy of the current candidate set in catalog order.
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Buffer returns a copy of the confirmed tokens.
func (r *Resolver) Buffer() []string {
	return append([]string(nil), r.buffer...)
}

// Len returns the current candidate count.
func (r *Resolver) Len() int {
	return len(r.candidates)
}

func (r *Resolver) match(want []string) []string {
	out := make([]string, 0)
	for _, e := range r.catalog {
		if containsAll(e.terms, want) {
			out = append(out, e.name)
		}
	}
	return out
}

func (r *Resolver) result(status Status, tok string) Result {
	return Result{
		Status: status,
		Token:  tok,
		Buffer: r.Buffer(),
		Count:  len(r.candidates),
	}
}

// String renders the buffer the way it is shown to the operator.
func (res Result) String() string {
	return strings.Join(res.Buffer, " ")
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// containsAll reports whether every term of want occurs in have. A term
// repeated in want needs only one occurrence.
func containsAll(have map[string]struct{}, want []string) bool {
	for _, term := range want {
		if _, ok := have[term]; !ok {
			return false
		}
	}
	return true
}
