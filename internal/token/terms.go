package token

import "unicode"

// Terms splits s into maximal letter runs and digit runs, exploding every digit
// run into single-digit terms. Anything else separates terms.
//
//	Terms("Kit Epoxi 7043") == []string{"KIT", "EPOXI", "7", "0", "4", "3"}
func Terms(s string) []string {
	folded := []rune(Fold(s))
	out := make([]string, 0, 4)

	for i := 0; i < len(folded); {
		r := folded[i]
		switch {
		case unicode.IsDigit(r):
			out = append(out, string(r))
			i++
		case unicode.IsLetter(r):
			j := i + 1
			for j < len(folded) && unicode.IsLetter(folded[j]) {
				j++
			}
			out = append(out, string(folded[i:j]))
			i = j
		default:
			i++
		}
	}
	return out
}
