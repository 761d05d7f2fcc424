package dataset

import (
	"errors"
	"reflect"
	"testing"
)

func companyTable(namesCol string, values ...string) *Table {
	t := &Table{Columns: []string{"id", namesCol}}
	for i, v := range values {
		t.Rows = append(t.Rows, []string{string(rune('a' + i)), v})
	}
	return t
}

func TestDedupeFirstOccurrenceWins(t *testing.T) {
	in := companyTable("company_name", "Acme Ltd", "ACME LIMITED", "Beta Inc")

	out, sum, err := Dedupe(in, Options{StripSuffixes: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if sum.RowsIn != 3 || sum.RowsOut != 2 || sum.Removed != 1 {
		t.Errorf("summary = %+v, want 3 in, 2 out, 1 removed", sum)
	}
	want := [][]string{
		{"a", "Acme Ltd"},
		{"c", "Beta Inc"},
	}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Errorf("rows = %v, want %v", out.Rows, want)
	}
}

func TestDedupeKeepsAllDistinct(t *testing.T) {
	in := companyTable("company_name", "Acme", "Beta", "Gamma")
	out, _, err := Dedupe(in, Options{StripSuffixes: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out.Rows) != 3 {
		t.Errorf("got %d rows, want 3", len(out.Rows))
	}
}

func TestDedupeEmptyKeyCollapses(t *testing.T) {
	// "LTD" and a blank name both normalize to "": they are the same key.
	in := companyTable("company_name", "LTD", "  ")
	out, _, err := Dedupe(in, Options{StripSuffixes: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(out.Rows))
	}
	if out.Rows[0][0] != "a" {
		t.Errorf("retained row %v, want the first input row", out.Rows[0])
	}
}

func TestDedupeMissingColumn(t *testing.T) {
	in := companyTable("company_name", "Acme")
	out, sum, err := Dedupe(in, Options{NameColumn: "missing_field"})
	if out != nil || sum != nil {
		t.Errorf("expected no partial result, got table=%v summary=%v", out, sum)
	}
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingColumnError", err)
	}
	if missing.Column != "missing_field" {
		t.Errorf("Column = %q, want %q", missing.Column, "missing_field")
	}
}

func TestDedupeKeepNormColumn(t *testing.T) {
	in := companyTable("company_name", "Acme (Holdings) PLC")
	out, _, err := Dedupe(in, Options{StripSuffixes: true, KeepNormColumn: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if got := out.Columns[len(out.Columns)-1]; got != NormColumn {
		t.Fatalf("last column = %q, want %q", got, NormColumn)
	}
	if got := out.Rows[0][len(out.Columns)-1]; got != "ACME HOLDINGS" {
		t.Errorf("canonical value = %q, want %q", got, "ACME HOLDINGS")
	}
}

func TestDedupeOverwritesExistingNormColumn(t *testing.T) {
	in := &Table{
		Columns: []string{"company_name", NormColumn},
		Rows:    [][]string{{"Acme Ltd", "stale"}},
	}
	out, _, err := Dedupe(in, Options{StripSuffixes: true, KeepNormColumn: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out.Columns) != 2 {
		t.Fatalf("columns = %v, want no duplicate %s", out.Columns, NormColumn)
	}
	if got := out.Rows[0][1]; got != "ACME" {
		t.Errorf("canonical value = %q, want %q (stale value must be replaced)", got, "ACME")
	}
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	in := companyTable("company_name", "Acme Ltd", "acme limited")
	before := make([][]string, len(in.Rows))
	for i, r := range in.Rows {
		before[i] = append([]string(nil), r...)
	}

	if _, _, err := Dedupe(in, Options{StripSuffixes: true, KeepNormColumn: true}); err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if !reflect.DeepEqual(in.Rows, before) {
		t.Errorf("input rows mutated: %v, want %v", in.Rows, before)
	}
}

func TestDedupeShortRows(t *testing.T) {
	// Rows narrower than the header hold empty strings in the missing
	// trailing fields; a missing name is the empty key.
	in := &Table{
		Columns: []string{"id", "company_name"},
		Rows:    [][]string{{"a"}, {"b", ""}, {"c", "Acme"}},
	}
	out, _, err := Dedupe(in, Options{StripSuffixes: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Errorf("got %d rows, want 2 (short and blank rows collapse)", len(out.Rows))
	}
}

func TestDedupeWideRows(t *testing.T) {
	// Rows wider than the header (possible when the table is built by
	// hand, e.g. over the API) are cut to the declared schema.
	in := &Table{
		Columns: []string{"id", "company_name"},
		Rows:    [][]string{{"a", "Acme Ltd", "stray extra"}},
	}
	out, _, err := Dedupe(in, Options{StripSuffixes: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	want := [][]string{{"a", "Acme Ltd"}}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Errorf("rows = %v, want %v", out.Rows, want)
	}
}

func TestDedupeSeededKeySet(t *testing.T) {
	seen := NewKeySet()
	seen.Add("ACME")

	in := companyTable("company_name", "Acme Ltd", "Beta Inc")
	out, _, err := Dedupe(in, Options{StripSuffixes: true, Seen: seen})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if len(out.Rows) != 1 || out.Rows[0][1] != "Beta Inc" {
		t.Errorf("rows = %v, want only the Beta Inc row", out.Rows)
	}
	if !seen.Contains("BETA") {
		t.Errorf("seeded set not updated with new keys")
	}
}
