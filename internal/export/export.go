// Package export writes proformas to XLSX workbooks.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/RCorpy/presupuestatorvoice/internal/proforma"
)

// Header is written on row 1 of a fresh workbook. Templates carry their own.
var Header = []string{"KITS", "PRODUCTO", "CANTIDAD", "PRECIO", "TOTAL"}

// FirstDataRow is the 1-based sheet row of the first proforma row.
const FirstDataRow = 2

const defaultSheet = "Proforma"

type Options struct {
	// TemplatePath is an optional base workbook. When set it must exist.
	TemplatePath string
	OutputDir    string
	// Sheet selects the template sheet; empty means the first one.
	Sheet string

	Now   func() time.Time
	NewID func() string
}

type Writer struct {
	opts Options
}

func New(opts Options) *Writer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	return &Writer{opts: opts}
}

// FileName builds proforma_<timestamp>_<id8>.xlsx.
func (w *Writer) FileName() string {
	id := w.opts.NewID()
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("proforma_%s_%s.xlsx", w.opts.Now().Format("20060102_150405"), id)
}

// Export writes rows to a new file in the output directory and returns its path.
func (w *Writer) Export(rows []proforma.Row) (string, error) {
	if err := os.MkdirAll(w.opts.OutputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(w.opts.OutputDir, w.FileName())
	if err := w.WriteFile(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes rows to path.
func (w *Writer) WriteFile(path string, rows []proforma.Row) error {
	f, sheet, err := w.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	styles, err := newStyles(f)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, FirstDataRow+i, row, styles); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (w *Writer) open() (*excelize.File, string, error) {
	if w.opts.TemplatePath == "" {
		return freshWorkbook()
	}

	if _, err := os.Stat(w.opts.TemplatePath); err != nil {
		return nil, "", fmt.Errorf("base workbook %s: %w", w.opts.TemplatePath, err)
	}
	f, err := excelize.OpenFile(w.opts.TemplatePath)
	if err != nil {
		return nil, "", fmt.Errorf("open base workbook: %w", err)
	}

	sheet := w.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		_ = f.Close()
		return nil, "", fmt.Errorf("base workbook has no sheet %q", sheet)
	}
	return f, sheet, nil
}

func freshWorkbook() (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), defaultSheet); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &Header); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("write header: %w", err)
	}
	return f, defaultSheet, nil
}

type styles struct {
	title int
	info  int
}

func newStyles(f *excelize.File) (styles, error) {
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles{}, fmt.Errorf("title style: %w", err)
	}
	info, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}})
	if err != nil {
		return styles{}, fmt.Errorf("info style: %w", err)
	}
	return styles{title: title, info: info}, nil
}

var errUnknownKind = errors.New("unknown row kind")

func writeRow(f *excelize.File, sheet string, line int, row proforma.Row, st styles) error {
	if row.Kind == proforma.KindEmpty {
		return nil
	}

	for col, text := range row.Cols {
		if text == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, line)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, cellValue(row.Kind, col, text)); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
	}

	var style int
	switch row.Kind {
	case proforma.KindTitle:
		style = st.title
	case proforma.KindInfo:
		style = st.info
	case proforma.KindProduct:
		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownKind, row.Kind)
	}
	first, _ := excelize.CoordinatesToCellName(1, line)
	last, _ := excelize.CoordinatesToCellName(proforma.Columns, line)
	return f.SetCellStyle(sheet, first, last, style)
}

// cellValue writes product numbers as numbers so the sheet can sum them.
func cellValue(kind proforma.Kind, col int, text string) any {
	if kind != proforma.KindProduct || col < proforma.ColQuantity {
		return text
	}
	if v, err := proforma.ParseNumber(text); err == nil {
		return v
	}
	return text
}
