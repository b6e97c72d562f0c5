package transcript

import (
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

// Alias maps one misrecognized phrase or word to its canonical replacement.
type Alias struct {
	From string
	To   string
}

// DefaultPhraseAliases fixes multi-word misrecognitions of command words.
func DefaultPhraseAliases() []Alias {
	return []Alias{
		{From: "SI LA", To: token.Row},
		{From: "SILA", To: token.Row},
	}
}

// DefaultWordAliases maps domain synonyms and near-homophones.
func DefaultWordAliases() []Alias {
	return []Alias{
		{From: "TOP", To: "POLITOP"},
		{From: "ACRILICA", To: "ENEKRIL"},
		{From: "ACRILICO", To: "ENEKRIL"},
		{From: "EPOXY", To: "EPOXI"},
		{From: "EPOSI", To: "EPOXI"},
		{From: "NO", To: token.Cancel},
	}
}

type phraseAlias struct {
	from []string
	to   []string
}

// Rewriter applies phrase aliases in order, then word aliases.
//
// Phrases match on whole words only and run before words so that a word alias
// never splits a phrase it is part of.
type Rewriter struct {
	phrases []phraseAlias
	words   map[string]string
}

// NewRewriter compiles ordered alias lists. Entries with an empty From are skipped.
func NewRewriter(phrases []Alias, words []Alias) *Rewriter {
	rw := &Rewriter{words: make(map[string]string, len(words))}
	for _, a := range phrases {
		from := strings.Fields(token.Fold(a.From))
		if len(from) == 0 {
			continue
		}
		rw.phrases = append(rw.phrases, phraseAlias{
			from: from,
			to:   strings.Fields(token.Fold(a.To)),
		})
	}
	for _, a := range words {
		from := token.Fold(strings.TrimSpace(a.From))
		if from == "" {
			continue
		}
		if _, exists := rw.words[from]; exists {
			continue
		}
		rw.words[from] = token.Fold(strings.TrimSpace(a.To))
	}
	return rw
}

// DefaultRewriter builds a rewriter from the default alias tables.
func DefaultRewriter() *Rewriter {
	return NewRewriter(DefaultPhraseAliases(), DefaultWordAliases())
}

// Rewrite returns text uppercased with every alias applied.
func (rw *Rewriter) Rewrite(text string) string {
	words := strings.Fields(token.Fold(text))
	for _, p := range rw.phrases {
		words = replacePhrase(words, p)
	}

	out := make([]string, 0, len(words))
	for _, w := range words {
		if to, ok := rw.words[w]; ok {
			if to != "" {
				out = append(out, to)
			}
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// replacePhrase substitutes non-overlapping occurrences, scanning left to right.
func replacePhrase(words []string, p phraseAlias) []string {
	if len(words) < len(p.from) {
		return words
	}

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if hasPrefixWords(words[i:], p.from) {
			out = append(out, p.to...)
			i += len(p.from)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func hasPrefixWords(words, prefix []string) bool {
	if len(words) < len(prefix) {
		return false
	}
	for i := range prefix {
		if words[i] != prefix[i] {
			return false
		}
	}
	return true
}
