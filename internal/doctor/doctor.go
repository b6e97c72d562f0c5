// Package doctor runs readiness diagnostics for config, catalog, layout
// rules, export paths, the speech recognizer and audio input.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RCorpy/presupuestatorvoice/internal/audio"
	"github.com/RCorpy/presupuestatorvoice/internal/catalog"
	"github.com/RCorpy/presupuestatorvoice/internal/config"
	"github.com/RCorpy/presupuestatorvoice/internal/layout"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output.
type Report struct {
	Checks []Check
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

func (r Report) String() string {
	lines := make([]string, 0, len(r.Checks))
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", status, check.Name, check.Message))
	}
	return strings.Join(lines, "\n")
}

// listDevices is replaced in tests.
var listDevices = audio.ListDevices

// Run executes every check against a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	cfg := loaded.Config
	return Report{Checks: []Check{
		checkConfig(loaded),
		checkCatalog(ctx, cfg.Catalog),
		checkLayout(cfg.Layout),
		checkTemplate(cfg.Export),
		checkOutputDir(cfg.Export),
		checkRecognizer(ctx, cfg.Recognizer),
		checkAudio(ctx, cfg.Audio),
	}}
}

func pass(name, format string, args ...any) Check {
	return Check{Name: name, Pass: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) Check {
	return Check{Name: name, Pass: false, Message: fmt.Sprintf(format, args...)}
}

func checkConfig(loaded config.Loaded) Check {
	msg := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		msg = fmt.Sprintf("%q not found, using defaults", loaded.Path)
	}
	if n := len(loaded.Warnings); n > 0 {
		msg += fmt.Sprintf(" (%d warnings)", n)
	}
	return pass("config", "%s", msg)
}

func checkCatalog(ctx context.Context, cfg config.CatalogConfig) Check {
	cat, err := catalog.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return fail("catalog", "%v", err)
	}
	if cat.Len() == 0 {
		return fail("catalog", "%s catalog %q has no products", cfg.Driver, cfg.DSN)
	}
	return pass("catalog", "%d products from %s", cat.Len(), cfg.Driver)
}

func checkLayout(cfg config.LayoutConfig) Check {
	if strings.TrimSpace(cfg.RulesPath) == "" {
		return pass("layout", "built-in rules")
	}
	rules, err := layout.Load(cfg.RulesPath)
	if err != nil {
		return fail("layout", "%v", err)
	}
	return pass("layout", "%q: %d annotations, %d tools", cfg.RulesPath, len(rules.Annotations), len(rules.Tools))
}

func checkTemplate(cfg config.ExportConfig) Check {
	if strings.TrimSpace(cfg.TemplatePath) == "" {
		return pass("export.template", "none, fresh workbooks")
	}
	info, err := os.Stat(cfg.TemplatePath)
	switch {
	case err != nil:
		return fail("export.template", "%v", err)
	case info.IsDir():
		return fail("export.template", "%q is a directory", cfg.TemplatePath)
	}
	return pass("export.template", "found %q", cfg.TemplatePath)
}

// checkOutputDir creates the directory when missing and proves it is writable.
func checkOutputDir(cfg config.ExportConfig) Check {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fail("export.output_dir", "%v", err)
	}
	probe, err := os.CreateTemp(cfg.OutputDir, ".doctor-*")
	if err != nil {
		return fail("export.output_dir", "not writable: %v", err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	abs, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		abs = cfg.OutputDir
	}
	return pass("export.output_dir", "writable %q", abs)
}

// checkAudio lists live sources and applies the configured selection.
func checkAudio(ctx context.Context, cfg config.AudioConfig) Check {
	devices, err := listDevices(ctx)
	if err != nil {
		return fail("audio.device", "%v", err)
	}
	selection, err := audio.Choose(devices, cfg.Input, cfg.Fallback)
	if err != nil {
		return fail("audio.device", "%v", err)
	}
	msg := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		msg += " (" + selection.Warning + ")"
	}
	return pass("audio.device", "%s", msg)
}
