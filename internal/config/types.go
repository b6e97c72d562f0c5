// Package config resolves, parses, validates, and defaults presupuestator configuration.
package config

import "github.com/RCorpy/presupuestatorvoice/internal/transcript"

// Config is the fully materialized runtime configuration.
type Config struct {
	Catalog    CatalogConfig
	Layout     LayoutConfig
	Export     ExportConfig
	Vocabulary VocabularyConfig
	Recognizer RecognizerConfig
	Audio      AudioConfig
	Session    SessionConfig
}

// CatalogConfig selects the product catalog backend.
type CatalogConfig struct {
	Driver string
	DSN    string
}

// LayoutConfig points at the optional YAML layout rules.
type LayoutConfig struct {
	RulesPath string
	Watch     bool
}

// ExportConfig controls XLSX output.
type ExportConfig struct {
	TemplatePath string
	OutputDir    string
	Sheet        string
}

// VocabularyConfig controls how recognized text becomes tokens.
type VocabularyConfig struct {
	ProductTriggers []string
	PhraseAliases   []transcript.Alias
	WordAliases     []transcript.Alias
	RepeatAllowed   []string
	DedupeRepeats   bool
}

// RecognizerConfig names the speech recognizer endpoint probed by doctor.
type RecognizerConfig struct {
	GRPC string
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// SessionConfig controls the initial document.
type SessionConfig struct {
	InitialRows int
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
