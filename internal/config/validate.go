package config

import (
	"fmt"
	"slices"
	"strings"
)

var knownDrivers = map[string]bool{"sqlite": true, "postgres": true, "memory": true}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	driver := strings.TrimSpace(cfg.Catalog.Driver)
	if driver == "" {
		return nil, fmt.Errorf("catalog.driver must not be empty")
	}
	if !knownDrivers[driver] {
		return nil, fmt.Errorf("catalog.driver must be one of: sqlite, postgres, memory")
	}
	if driver != "memory" && strings.TrimSpace(cfg.Catalog.DSN) == "" {
		return nil, fmt.Errorf("catalog.dsn must not be empty when catalog.driver=%s", driver)
	}
	if strings.TrimSpace(cfg.Export.OutputDir) == "" {
		return nil, fmt.Errorf("export.output_dir must not be empty")
	}
	if len(cfg.Vocabulary.ProductTriggers) == 0 {
		return nil, fmt.Errorf("vocabulary.product_triggers must not be empty")
	}
	for i, a := range cfg.Vocabulary.PhraseAliases {
		if strings.TrimSpace(a.From) == "" {
			return nil, fmt.Errorf("vocabulary.phrase_aliases[%d].from must not be empty", i)
		}
	}
	for i, a := range cfg.Vocabulary.WordAliases {
		if strings.TrimSpace(a.From) == "" {
			return nil, fmt.Errorf("vocabulary.word_aliases[%d].from must not be empty", i)
		}
		if strings.ContainsAny(strings.TrimSpace(a.From), " \t") {
			return nil, fmt.Errorf("vocabulary.word_aliases[%d].from must be a single word; use phrase_aliases", i)
		}
	}
	if cfg.Session.InitialRows < 1 {
		return nil, fmt.Errorf("session.initial_rows must be >= 1")
	}

	if !cfg.Vocabulary.DedupeRepeats && len(cfg.Vocabulary.RepeatAllowed) > 0 && !slices.Equal(cfg.Vocabulary.RepeatAllowed, Default().Vocabulary.RepeatAllowed) {
		warnings = append(warnings, Warning{Message: "vocabulary.repeat_allowed is ignored while vocabulary.dedupe_repeats=false"})
	}

	return warnings, nil
}
