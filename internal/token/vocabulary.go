// Package token maps recognized words onto the canonical command vocabulary.
package token

// Canonical command words. The vocabulary is fixed and domain specific.
const (
	Cancel   = "CANCELAR"
	Row      = "FILA"
	Product  = "PRODUCTO"
	Quantity = "CANTIDAD"
	Price    = "PRECIO"
	Next     = "SIGUIENTE"
	NewRow   = "NUEVA"
	Title    = "TITULO"
	Info     = "DETALLE"
	Empty    = "VACIA"
	Delete   = "BORRAR"

	// Separator is the marker every decimal-separator word normalizes to.
	Separator = "."
)

var digitWords = map[string]string{
	"CERO":   "0",
	"UNO":    "1",
	"DOS":    "2",
	"TRES":   "3",
	"CUATRO": "4",
	"CINCO":  "5",
	"SEIS":   "6",
	"SIETE":  "7",
	"OCHO":   "8",
	"NUEVE":  "9",
}

// synonyms collapse alternative spoken or typed forms onto one canonical word.
var synonyms = map[string]string{
	"NUEVO":       NewRow,
	"INFO":        Info,
	"INFORMACION": Info,
	"VACIO":       Empty,
	"COMA":        Separator,
	"PUNTO":       Separator,
	",":           Separator,
}

var structural = map[string]struct{}{
	Title:  {},
	Info:   {},
	Empty:  {},
	Delete: {},
}

// IsStructural reports whether tok rewrites the kind of the active row.
func IsStructural(tok string) bool {
	_, ok := structural[tok]
	return ok
}

// IsDigits reports whether tok is a non-empty run of ASCII digits.
func IsDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// IsNumeric reports whether tok only holds digits and separators.
func IsNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}
