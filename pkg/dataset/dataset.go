// CLAUDE:SUMMARY Ordered tabular dataset model: named text columns, rows of strings, schema lookups.
package dataset

import "fmt"

// Table is an ordered sequence of records with named text fields.
// Rows are stored positionally against Columns; every value is text.
// Row order is meaningful (first occurrence wins on dedup).
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the row's value for a column index, treating short rows
// as holding empty strings in their missing trailing fields.
func (t *Table) Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// MissingColumnError reports that a required column is absent from the
// table schema. It is a schema-level failure: no rows are processed.
type MissingColumnError struct {
	Column  string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found in header %v", e.Column, e.Columns)
}
