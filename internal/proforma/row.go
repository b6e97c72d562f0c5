// Package proforma holds the quotation document: an ordered list of typed rows
// with five positional text columns each.
package proforma

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags a row with its structural role.
type Kind int

const (
	KindProduct Kind = iota
	KindTitle
	KindInfo
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindProduct:
		return "PRODUCT"
	case KindTitle:
		return "TITLE"
	case KindInfo:
		return "INFO"
	case KindEmpty:
		return "EMPTY"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names produced by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRODUCT":
		return KindProduct, nil
	case "TITLE":
		return KindTitle, nil
	case "INFO":
		return KindInfo, nil
	case "EMPTY":
		return KindEmpty, nil
	default:
		return 0, fmt.Errorf("unknown row kind %q", s)
	}
}

// Column positions on a product row.
const (
	ColKit = iota
	ColName
	ColQuantity
	ColPrice
	ColTotal

	Columns
)

// Row is one document line. It is a value type; the document stores copies.
type Row struct {
	Kind Kind
	Cols [Columns]string
}

// Title returns a heading row.
func Title(text string) Row {
	return Row{Kind: KindTitle, Cols: [Columns]string{text}}
}

// Info returns an annotation row with two free-text fields.
func Info(left, right string) Row {
	return Row{Kind: KindInfo, Cols: [Columns]string{left, right}}
}

// Empty returns a spacer row.
func Empty() Row {
	return Row{Kind: KindEmpty}
}

// Product returns a product row with its total derived from quantity and price.
func Product(kit, name, quantity, price string) Row {
	row := Row{Kind: KindProduct, Cols: [Columns]string{kit, name, quantity, price}}
	row.recalc()
	return row
}

// BlankProduct returns a product row with every column empty.
func BlankProduct() Row {
	return Row{Kind: KindProduct}
}

func (r Row) Kit() string      { return r.Cols[ColKit] }
func (r Row) Name() string     { return r.Cols[ColName] }
func (r Row) Quantity() string { return r.Cols[ColQuantity] }
func (r Row) Price() string    { return r.Cols[ColPrice] }
func (r Row) Total() string    { return r.Cols[ColTotal] }

// Values returns the five columns as a slice.
func (r Row) Values() []string {
	return append([]string(nil), r.Cols[:]...)
}

// normalized enforces the per-kind column rules before a row is stored.
func (r Row) normalized() Row {
	switch r.Kind {
	case KindEmpty:
		r.Cols = [Columns]string{}
	case KindProduct:
		r.recalc()
	}
	return r
}

func (r *Row) recalc() {
	r.Cols[ColTotal] = Total(r.Cols[ColQuantity], r.Cols[ColPrice])
}

// Total multiplies quantity by price and rounds to two decimals. It returns
// an empty string when either operand is not a finite number.
func Total(quantity, price string) string {
	q, ok := parseNumber(quantity)
	if !ok {
		return ""
	}
	p, ok := parseNumber(price)
	if !ok {
		return ""
	}
	return FormatNumber(math.Round(q*p*100) / 100)
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber parses a column value, accepting a comma as decimal separator.
func ParseNumber(s string) (float64, error) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
