package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RCorpy/presupuestatorvoice/internal/audio"
	"github.com/RCorpy/presupuestatorvoice/internal/catalog"
	"github.com/RCorpy/presupuestatorvoice/internal/config"
)

func stubDevices(t *testing.T, devices []audio.Device, err error) {
	t.Helper()
	prev := listDevices
	listDevices = func(context.Context) ([]audio.Device, error) { return devices, err }
	t.Cleanup(func() { listDevices = prev })
}

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	require.Equal(t, "[OK] one: good\n[FAIL] two: bad", report.String())
	require.True(t, Report{}.OK())
}

func TestRunAllPassingWithMemoryCatalog(t *testing.T) {
	stubDevices(t, []audio.Device{{ID: "mic", Available: true, Default: true}}, nil)

	cfg := config.Default()
	cfg.Catalog = config.CatalogConfig{Driver: catalog.DriverMemory}
	cfg.Export.OutputDir = filepath.Join(t.TempDir(), "out")

	report := Run(context.Background(), config.Loaded{Path: "/nowhere/config.jsonc", Config: cfg})
	require.True(t, report.OK(), report.String())
	require.Len(t, report.Checks, 7)
	require.Contains(t, report.String(), "not found, using defaults")
	require.Contains(t, report.String(), "products from memory")
	require.Contains(t, report.String(), "not configured, skipped")
	require.DirExists(t, cfg.Export.OutputDir)
}

func TestCheckCatalogMissingSQLite(t *testing.T) {
	check := checkCatalog(context.Background(), config.CatalogConfig{
		Driver: catalog.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "missing.db"),
	})
	require.False(t, check.Pass)
}

func TestCheckCatalogSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.db")
	require.NoError(t, catalog.CreateSQLite(context.Background(), path, catalog.Sample()))

	check := checkCatalog(context.Background(), config.CatalogConfig{Driver: catalog.DriverSQLite, DSN: path})
	require.True(t, check.Pass, check.Message)
	require.Contains(t, check.Message, "9 products")
}

func TestCheckLayout(t *testing.T) {
	require.True(t, checkLayout(config.LayoutConfig{}).Pass)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_kit_price: -1\n"), 0o600))
	require.False(t, checkLayout(config.LayoutConfig{RulesPath: path}).Pass)

	require.False(t, checkLayout(config.LayoutConfig{RulesPath: filepath.Join(t.TempDir(), "absent.yaml")}).Pass)
}

func TestCheckTemplate(t *testing.T) {
	require.True(t, checkTemplate(config.ExportConfig{}).Pass)

	dir := t.TempDir()
	require.False(t, checkTemplate(config.ExportConfig{TemplatePath: dir}).Pass)
	require.False(t, checkTemplate(config.ExportConfig{TemplatePath: filepath.Join(dir, "base.xlsx")}).Pass)

	path := filepath.Join(dir, "base.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.True(t, checkTemplate(config.ExportConfig{TemplatePath: path}).Pass)
}

func TestCheckOutputDirNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	check := checkOutputDir(config.ExportConfig{OutputDir: filepath.Join(file, "sub")})
	require.False(t, check.Pass)
}

func TestCheckAudio(t *testing.T) {
	stubDevices(t, nil, errors.New("connect pulse server: refused"))
	check := checkAudio(context.Background(), config.AudioConfig{Input: "default"})
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "refused")

	stubDevices(t, []audio.Device{
		{ID: "usb-mic", Available: true, Muted: true, Default: true},
		{ID: "headset", Available: true},
	}, nil)
	check = checkAudio(context.Background(), config.AudioConfig{Input: "usb", Fallback: "headset"})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "falling back")
}
