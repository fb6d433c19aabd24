// Package export writes the final transaction table to disk, named after the
// collection window.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"aptrade/internal/frame"
	"aptrade/internal/window"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// utf8BOM keeps Korean text intact when the file is opened in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const xlsxSheetName = "거래내역"

type Exporter struct {
	dir    string
	prefix string
	format Format
}

// New creates an exporter writing <prefix>_<start>_<end>.<format> files
// under dir.
func New(dir, prefix string, format Format) (*Exporter, error) {
	switch format {
	case FormatCSV, FormatXLSX:
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	return &Exporter{dir: dir, prefix: prefix, format: format}, nil
}

// Write persists the table and returns the file path. The output directory
// is created if missing; any I/O failure is returned to the caller.
func (e *Exporter) Write(f *frame.Frame, w window.Window) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.%s", e.prefix, w.Start, w.End, e.format)
	path := filepath.Join(e.dir, name)

	var err error
	switch e.format {
	case FormatXLSX:
		err = writeXLSX(path, f)
	default:
		err = writeCSV(path, f)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(path string, f *frame.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(f.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < f.Len(); i++ {
		if err := cw.Write(f.Row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return file.Close()
}

func writeXLSX(path string, f *frame.Frame) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), xlsxSheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, 0, len(f.Columns()))
	for _, c := range f.Columns() {
		header = append(header, c)
	}
	if err := x.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < f.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell: %w", i, err)
		}
		row := f.Row(i)
		vals := make([]any, 0, len(row))
		for _, v := range row {
			vals = append(vals, v)
		}
		if err := x.SetSheetRow(xlsxSheetName, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := x.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
