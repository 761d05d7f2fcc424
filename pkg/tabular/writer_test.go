package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hazyhaar/company-intel/pkg/dataset"
)

func sampleTable() *dataset.Table {
	return &dataset.Table{
		Columns: []string{"id", "company_name"},
		Rows: [][]string{
			{"1", "Acme Ltd"},
			{"2", "O'Brien & Co"},
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deduped.csv")

	if err := WriteCSV(path, sampleTable()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	back, err := ReadCSV(path, "")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(back, sampleTable()) {
		t.Errorf("round trip = %+v, want %+v", back, sampleTable())
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deduped.xlsx")
	if err := WriteXLSX(path, sampleTable()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat workbook: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook is empty")
	}
}

func TestWriteOutputsExcelFailureNonFatal(t *testing.T) {
	dir := t.TempDir()
	outCSV := filepath.Join(dir, "result.csv")

	// Occupy the xlsx path with a directory so the Excel save fails.
	if err := os.Mkdir(filepath.Join(dir, "result.xlsx"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := WriteOutputs(outCSV, sampleTable(), nil); err != nil {
		t.Fatalf("WriteOutputs must not fail when only the Excel write fails: %v", err)
	}
	if _, err := os.Stat(outCSV); err != nil {
		t.Errorf("csv output missing: %v", err)
	}
}
