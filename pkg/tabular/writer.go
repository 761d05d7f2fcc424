// CLAUDE:SUMMARY CSV and Excel output of deduped tables; the Excel rendering is best-effort and never fails a run.
package tabular

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/company-intel/pkg/dataset"
	"github.com/xuri/excelize/v2"
)

// WriteCSV writes the table as UTF-8 CSV at path, creating the parent
// directory if needed.
func WriteCSV(path string, t *dataset.Table) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes the table as a single-sheet Excel workbook.
func WriteXLSX(path string, t *dataset.Table) error {
	if err := ensureParent(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("set header cell: %w", err)
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell %d,%d: %w", r, c, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}

// WriteOutputs writes the CSV at outCSV plus an Excel rendering of the
// same rows next to it. CSV failure is fatal; the Excel write is
// best-effort and only logged, so a broken spreadsheet library or an
// exotic filesystem never loses the CSV.
func WriteOutputs(outCSV string, t *dataset.Table, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := WriteCSV(outCSV, t); err != nil {
		return err
	}

	xlsxPath := strings.TrimSuffix(outCSV, filepath.Ext(outCSV)) + ".xlsx"
	if err := WriteXLSX(xlsxPath, t); err != nil {
		logger.Warn("excel export failed, csv output kept", "path", xlsxPath, "error", err)
	}
	return nil
}

// ensureParent creates the directory holding path if it doesn't exist.
func ensureParent(path string) error {
	parent := filepath.Dir(path)
	if parent == "" || parent == "." {
		return nil
	}
	return os.MkdirAll(parent, 0o755)
}
