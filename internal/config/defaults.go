package config

import "github.com/RCorpy/presupuestatorvoice/internal/transcript"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Driver: "sqlite",
			DSN:    "materials.db",
		},
		Layout: LayoutConfig{Watch: true},
		Export: ExportConfig{OutputDir: "output"},
		Vocabulary: VocabularyConfig{
			ProductTriggers: []string{"PRODUCTO", "KIT"},
			PhraseAliases:   transcript.DefaultPhraseAliases(),
			WordAliases:     transcript.DefaultWordAliases(),
			RepeatAllowed:   []string{"SIGUIENTE", "NUEVA", "PRODUCTO", "KIT", "EPOXI"},
			DedupeRepeats:   true,
		},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Session: SessionConfig{InitialRows: 1},
	}
}

// Environment variables that override file values.
const (
	EnvMaterialsDB = "MATERIALS_DB_PATH"
	EnvExcelBase   = "EXCEL_BASE_PATH"
	EnvExcelOutput = "EXCEL_OUTPUT_DIR"
)

// applyEnv overlays the environment overrides onto cfg.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvMaterialsDB); v != "" {
		cfg.Catalog.DSN = v
	}
	if v := getenv(EnvExcelBase); v != "" {
		cfg.Export.TemplatePath = v
	}
	if v := getenv(EnvExcelOutput); v != "" {
		cfg.Export.OutputDir = v
	}
}
