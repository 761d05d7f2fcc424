package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "in.csv", "id,company_name\n1,Acme Ltd\n2,\"Beta, Inc\"\n")

	table, err := ReadCSV(path, "")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"id", "company_name"}) {
		t.Errorf("columns = %v", table.Columns)
	}
	want := [][]string{{"1", "Acme Ltd"}, {"2", "Beta, Inc"}}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %v, want %v", table.Rows, want)
	}
}

func TestReadCSVPadsShortRows(t *testing.T) {
	path := writeFile(t, "in.csv", "id,company_name,city\n1,Acme\n")

	table, err := ReadCSV(path, "")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(table.Rows[0], []string{"1", "Acme", ""}) {
		t.Errorf("rows = %v, want short row padded to header width", table.Rows)
	}
}

func TestReadCSVTruncatesWideRows(t *testing.T) {
	path := writeFile(t, "in.csv", "id,company_name\n1,Acme,stray extra\n2,Beta\n")

	table, err := ReadCSV(path, "")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := [][]string{{"1", "Acme"}, {"2", "Beta"}}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %v, want wide row cut to header width", table.Rows)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeFile(t, "in.csv", "")
	if _, err := ReadCSV(path, ""); err == nil {
		t.Fatal("expected error for file without header row")
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadCSVTranscodesEncoding(t *testing.T) {
	// "Café" in ISO 8859-1: é is a single 0xE9 byte.
	raw := "company_name\nCaf\xe9\n"
	path := writeFile(t, "latin1.csv", raw)

	table, err := ReadCSV(path, "iso-8859-1")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := table.Rows[0][0]; got != "Café" {
		t.Errorf("value = %q, want %q", got, "Café")
	}
}

func TestReadCSVUnknownEncoding(t *testing.T) {
	path := writeFile(t, "in.csv", "a\n1\n")
	if _, err := ReadCSV(path, "no-such-encoding"); err == nil {
		t.Fatal("expected error for unknown encoding")
	} else if !strings.Contains(err.Error(), "no-such-encoding") {
		t.Errorf("error should name the encoding: %v", err)
	}
}
