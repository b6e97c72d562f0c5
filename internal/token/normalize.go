package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningTilde survives folding so Ñ stays distinct from N.
const combiningTilde = '\u0303'

var stripMarks = runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.Is(unicode.Mn, r) && r != combiningTilde
}))

// Fold uppercases s and strips diacritics other than the tilde of Ñ.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(folded)
}

// Normalize maps one raw recognized or typed word to its canonical token.
//
// Digit words become single digits, decimal-separator words become Separator
// and known synonyms become their command word. Everything else is returned
// folded but otherwise unchanged.
func Normalize(raw string) string {
	word := Fold(strings.TrimSpace(raw))
	if digit, ok := digitWords[word]; ok {
		return digit
	}
	if canonical, ok := synonyms[word]; ok {
		return canonical
	}
	return word
}

// Split breaks text on whitespace and normalizes every word.
func Split(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if tok := Normalize(f); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
