package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/transcript"
)

type jsoncConfig struct {
	Catalog    *jsoncCatalog    `json:"catalog"`
	Layout     *jsoncLayout     `json:"layout"`
	Export     *jsoncExport     `json:"export"`
	Vocabulary *jsoncVocabulary `json:"vocabulary"`
	Recognizer *jsoncRecognizer `json:"recognizer"`
	Audio      *jsoncAudio      `json:"audio"`
	Session    *jsoncSession    `json:"session"`
}

type jsoncCatalog struct {
	Driver *string `json:"driver"`
	DSN    *string `json:"dsn"`
}

type jsoncLayout struct {
	RulesPath *string `json:"rules_path"`
	Watch     *bool   `json:"watch"`
}

type jsoncExport struct {
	TemplatePath *string `json:"template_path"`
	OutputDir    *string `json:"output_dir"`
	Sheet        *string `json:"sheet"`
}

type jsoncVocabulary struct {
	ProductTriggers *jsoncStringList `json:"product_triggers"`
	PhraseAliases   []jsoncAlias     `json:"phrase_aliases"`
	WordAliases     []jsoncAlias     `json:"word_aliases"`
	RepeatAllowed   *jsoncStringList `json:"repeat_allowed"`
	DedupeRepeats   *bool            `json:"dedupe_repeats"`
}

type jsoncAlias struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type jsoncRecognizer struct {
	GRPC *string `json:"grpc"`
}

type jsoncAudio struct {
	Input    *string `json:"input"`
	Fallback *string `json:"fallback"`
}

type jsoncSession struct {
	InitialRows *int `json:"initial_rows"`
}

// jsoncStringList accepts either a JSON string array or one comma-delimited string.
type jsoncStringList []string

func (l *jsoncStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = trimNonEmpty(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = trimNonEmpty(strings.Split(single, ","))
		return nil
	}

	return fmt.Errorf("expected string array or comma-delimited string")
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	payload.applyTo(&cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (payload jsoncConfig) applyTo(cfg *Config) {
	if c := payload.Catalog; c != nil {
		setString(&cfg.Catalog.Driver, c.Driver)
		setString(&cfg.Catalog.DSN, c.DSN)
		cfg.Catalog.Driver = strings.ToLower(cfg.Catalog.Driver)
	}

	if l := payload.Layout; l != nil {
		setString(&cfg.Layout.RulesPath, l.RulesPath)
		if l.Watch != nil {
			cfg.Layout.Watch = *l.Watch
		}
	}

	if e := payload.Export; e != nil {
		setString(&cfg.Export.TemplatePath, e.TemplatePath)
		setString(&cfg.Export.OutputDir, e.OutputDir)
		setString(&cfg.Export.Sheet, e.Sheet)
	}

	if v := payload.Vocabulary; v != nil {
		if v.ProductTriggers != nil {
			cfg.Vocabulary.ProductTriggers = []string(*v.ProductTriggers)
		}
		if v.PhraseAliases != nil {
			cfg.Vocabulary.PhraseAliases = toAliases(v.PhraseAliases)
		}
		if v.WordAliases != nil {
			cfg.Vocabulary.WordAliases = toAliases(v.WordAliases)
		}
		if v.RepeatAllowed != nil {
			cfg.Vocabulary.RepeatAllowed = []string(*v.RepeatAllowed)
		}
		if v.DedupeRepeats != nil {
			cfg.Vocabulary.DedupeRepeats = *v.DedupeRepeats
		}
	}

	if r := payload.Recognizer; r != nil {
		setString(&cfg.Recognizer.GRPC, r.GRPC)
	}

	if a := payload.Audio; a != nil {
		setString(&cfg.Audio.Input, a.Input)
		setString(&cfg.Audio.Fallback, a.Fallback)
	}

	if s := payload.Session; s != nil && s.InitialRows != nil {
		cfg.Session.InitialRows = *s.InitialRows
	}
}

func toAliases(in []jsoncAlias) []transcript.Alias {
	out := make([]transcript.Alias, 0, len(in))
	for _, a := range in {
		out = append(out, transcript.Alias{From: a.From, To: a.To})
	}
	return out
}

// normalizeJSONC blanks out comments and trailing commas. Every removed byte
// becomes a space (newlines are kept), so decoder offsets still point at the
// original line and column.
func normalizeJSONC(content string) (string, error) {
	buf := []byte(content)

	inString, escape := false, false
	for i := 0; i < len(buf); i++ {
		ch := buf[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
		case ch == '/' && i+1 < len(buf) && buf[i+1] == '/':
			for i < len(buf) && buf[i] != '\n' && buf[i] != '\r' {
				buf[i] = ' '
				i++
			}
		case ch == '/' && i+1 < len(buf) && buf[i+1] == '*':
			end := strings.Index(string(buf[i+2:]), "*/")
			if end < 0 {
				return "", fmt.Errorf("unterminated block comment in JSONC")
			}
			blank(buf[i : i+2+end+2])
			i += 2 + end + 1
		}
	}

	inString, escape = false, false
	for i := 0; i < len(buf); i++ {
		ch := buf[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(buf) && isJSONWhitespace(buf[j]) {
				j++
			}
			if j < len(buf) && (buf[j] == '}' || buf[j] == ']') {
				buf[i] = ' '
			}
		}
	}

	return string(buf), nil
}

func blank(b []byte) {
	for i, ch := range b {
		if ch != '\n' && ch != '\r' && ch != '\t' {
			b[i] = ' '
		}
	}
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}
	limit := min(int(offset), len(content))

	prefix := content[:max(limit-1, 0)]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
