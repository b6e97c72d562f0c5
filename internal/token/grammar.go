package token

import (
	"sort"
	"strings"
)

var baseGrammar = []string{
	"fila", "cantidad", "precio", "siguiente", "cancelar", "producto",
	"nuevo", "nueva", "titulo", "detalle", "vacia", "borrar",
	"coma", "punto", "no", "si",
	"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve",
}

// Grammar returns the recognizer vocabulary: the command words plus every
// catalog name, lowercased, deduplicated and sorted.
func Grammar(names []string) []string {
	seen := make(map[string]struct{}, len(baseGrammar)+len(names))
	for _, w := range baseGrammar {
		seen[w] = struct{}{}
	}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
