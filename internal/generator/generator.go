// Package generator builds a complete proforma from a short job description:
// customer header, primer section, coating layers and tooling.
package generator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/layout"
	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

type Request struct {
	Resin         string
	Primer        bool
	Layers        int
	AreaM2        float64
	Multiplier    float64
	Color         string
	CustomerName  string
	CustomerPhone string
}

var layerCount = regexp.MustCompile(`(\d+)\s*CAPA`)

// ParseWorkType reads job descriptions such as "IMPRIMACIÓN + 2 CAPAS".
// A bare "CAPA" counts as one layer.
func ParseWorkType(s string) (primer bool, layers int, err error) {
	folded := token.Fold(s)
	primer = strings.Contains(folded, "IMPRIMACION")
	if strings.Contains(folded, "CAPA") {
		layers = 1
		if m := layerCount.FindStringSubmatch(folded); m != nil {
			layers, err = strconv.Atoi(m[1])
			if err != nil {
				return false, 0, fmt.Errorf("layer count in %q: %w", s, err)
			}
		}
	}
	if !primer && layers == 0 {
		return false, 0, fmt.Errorf("work type %q names neither IMPRIMACIÓN nor CAPA", s)
	}
	return primer, layers, nil
}

func (r Request) validate() error {
	var errs []error
	if strings.TrimSpace(r.Resin) == "" {
		errs = append(errs, errors.New("resin must not be empty"))
	}
	if r.AreaM2 <= 0 {
		errs = append(errs, errors.New("area must be > 0"))
	}
	if r.Layers < 0 {
		errs = append(errs, errors.New("layers must be >= 0"))
	}
	if r.Multiplier < 0 {
		errs = append(errs, errors.New("multiplier must be >= 0"))
	}
	return errors.Join(errs...)
}

// Generate lays out the rows for req. Unit prices come from prices when the
// product is known there, otherwise from the rules' default kit price, and
// are scaled by the request multiplier.
func Generate(req Request, rules layout.Rules, prices proforma.PriceLookup) ([]proforma.Row, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Multiplier == 0 {
		req.Multiplier = 1
	}
	b := builder{req: req, rules: rules, prices: prices}

	if header := strings.TrimSpace(req.CustomerName + " " + req.CustomerPhone); header != "" {
		b.rows = append(b.rows, proforma.Row{Kind: proforma.KindTitle, Cols: [proforma.Columns]string{"CLIENTE", header}})
	}

	if req.Primer {
		b.rows = append(b.rows, proforma.Title("IMPRIMACIÓN"))
		b.kits(rules.PrimerFor(req.Resin), req.AreaM2*rules.PrimerKgPerM2)
		b.rows = append(b.rows, proforma.Empty())
	}

	if req.Layers > 0 {
		title := fmt.Sprintf("%d CAPA", req.Layers)
		if req.Layers > 1 {
			title += "S"
		}
		if color := strings.TrimSpace(req.Color); color != "" {
			title += " · " + strings.ToUpper(color)
		}
		b.rows = append(b.rows, proforma.Title(title))
		b.kits("KIT "+strings.ToUpper(strings.TrimSpace(req.Resin)), req.AreaM2*rules.LayerKgPerM2*float64(req.Layers))
		b.rows = append(b.rows, proforma.Empty())
	}

	b.rows = append(b.rows, proforma.Title("HERRAMIENTAS"))
	for _, tool := range rules.Tools {
		b.rows = append(b.rows, proforma.Product("", tool.Name, proforma.FormatNumber(tool.Quantity), proforma.FormatNumber(tool.Price)))
	}
	return b.rows, nil
}

type builder struct {
	req    Request
	rules  layout.Rules
	prices proforma.PriceLookup
	rows   []proforma.Row
}

func (b *builder) kits(product string, totalKg float64) {
	price := b.unitPrice(product)
	note, hasNote := b.rules.AnnotationFor(product)

	for _, kit := range SelectKits(totalKg) {
		b.rows = append(b.rows, proforma.Product(
			kitLabel(kit),
			product,
			strconv.Itoa(kit.Amount),
			proforma.FormatNumber(price),
		))
		if hasNote {
			b.rows = append(b.rows, proforma.Info(note, ""))
		}
	}
}

func (b *builder) unitPrice(product string) float64 {
	base := b.rules.DefaultKitPrice
	if b.prices != nil {
		if p, ok := b.prices.Price(product); ok {
			base = p
		}
	}
	return math.Round(base*b.req.Multiplier*100) / 100
}

func kitLabel(k KitCount) string {
	if k.Amount == 1 {
		return fmt.Sprintf("1 kit %dkg", k.SizeKg)
	}
	return fmt.Sprintf("%d kits %dkg", k.Amount, k.SizeKg)
}
