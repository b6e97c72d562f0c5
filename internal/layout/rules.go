// Package layout holds the static rules used to lay out generated proformas:
// primer choice per resin, product annotations, usage ratios and tooling.
package layout

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RCorpy/presupuestatorvoice/internal/token"
)

// Annotation attaches Text to every product whose name contains all terms of Match.
type Annotation struct {
	Match string `yaml:"match"`
	Text  string `yaml:"text"`
}

// Tool is one fixed line of the tooling section.
type Tool struct {
	Name     string  `yaml:"name"`
	Quantity float64 `yaml:"quantity"`
	Price    float64 `yaml:"price"`
}

type Rules struct {
	// Primers maps a resin type to its primer product.
	Primers       map[string]string `yaml:"primers"`
	DefaultPrimer string            `yaml:"default_primer"`
	// Annotations are tried in order; the first match wins.
	Annotations     []Annotation `yaml:"annotations"`
	PrimerKgPerM2   float64      `yaml:"primer_kg_per_m2"`
	LayerKgPerM2    float64      `yaml:"layer_kg_per_m2"`
	Tools           []Tool       `yaml:"tools"`
	DefaultKitPrice float64      `yaml:"default_kit_price"`
}

func Default() Rules {
	return Rules{
		Primers: map[string]string{
			"EPOXI":       "KIT EPOXI PRIMER",
			"POLITOP":     "POLITOP BLANCO",
			"IMPRIMACIÓN": "IMPRIMACIÓN GENÉRICA",
		},
		DefaultPrimer: "IMPRIMACIÓN GENÉRICA",
		Annotations: []Annotation{
			{Match: "EPOXI", Text: "Catalizador 5:1"},
			{Match: "POLITOP", Text: "Resina monocomponente"},
			{Match: "IMPRIMACIÓN", Text: "Catalizador 5:1"},
		},
		PrimerKgPerM2: 0.2,
		LayerKgPerM2:  0.2,
		Tools: []Tool{
			{Name: "Báscula", Quantity: 1},
			{Name: "Rodillos", Quantity: 3},
			{Name: "Cubos de mezcla", Quantity: 3},
		},
		DefaultKitPrice: 100,
	}
}

// Load reads a YAML rules file. Fields absent from the file keep their
// defaults; lists present in the file replace the default list.
func Load(path string) (Rules, error) {
	rules := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read layout rules %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse layout rules %q: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("layout rules %q: %w", path, err)
	}
	return rules, nil
}

func (r Rules) Validate() error {
	var errs []error
	if strings.TrimSpace(r.DefaultPrimer) == "" {
		errs = append(errs, errors.New("default_primer must not be empty"))
	}
	if r.PrimerKgPerM2 < 0 || r.LayerKgPerM2 < 0 {
		errs = append(errs, errors.New("usage ratios must be >= 0"))
	}
	if r.DefaultKitPrice < 0 {
		errs = append(errs, errors.New("default_kit_price must be >= 0"))
	}
	for i, a := range r.Annotations {
		if len(token.Terms(a.Match)) == 0 {
			errs = append(errs, fmt.Errorf("annotations[%d].match must contain a word", i))
		}
	}
	for i, t := range r.Tools {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("tools[%d].name must not be empty", i))
		}
	}
	return errors.Join(errs...)
}

// AnnotationFor returns the INFO text for a product name, if a rule matches.
func (r Rules) AnnotationFor(name string) (string, bool) {
	have := make(map[string]int)
	for _, t := range token.Terms(name) {
		have[t]++
	}
	for _, a := range r.Annotations {
		if matchesAll(have, token.Terms(a.Match)) {
			return a.Text, a.Text != ""
		}
	}
	return "", false
}

// PrimerFor returns the primer product for a resin type.
func (r Rules) PrimerFor(resin string) string {
	want := token.Fold(strings.TrimSpace(resin))
	for k, v := range r.Primers {
		if token.Fold(k) == want {
			return v
		}
	}
	return r.DefaultPrimer
}

func matchesAll(have map[string]int, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	need := make(map[string]int, len(terms))
	for _, t := range terms {
		need[t]++
		if have[t] < need[t] {
			return false
		}
	}
	return true
}
