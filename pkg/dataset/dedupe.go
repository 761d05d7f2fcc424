// CLAUDE:SUMMARY First-occurrence-wins deduplication of table rows keyed on the canonical company name.
package dataset

import (
	"log/slog"

	"github.com/hazyhaar/company-intel/pkg/names"
)

// NormColumn is the name of the column holding the canonical form when
// the caller asks to keep it in the output.
const NormColumn = "_norm_name"

// DefaultNameColumn is the column deduplication keys on unless
// configured otherwise.
const DefaultNameColumn = "company_name"

// Options controls deduplication.
type Options struct {
	// NameColumn is the column holding the raw company name.
	// Empty means DefaultNameColumn.
	NameColumn string
	// StripSuffixes removes legal-entity suffixes (LTD, PLC, ...) when
	// computing the canonical key.
	StripSuffixes bool
	// KeepNormColumn carries the computed canonical name into the
	// output as a NormColumn column.
	KeepNormColumn bool
	// Seen, when non-nil, pre-seeds the canonical keys considered
	// already emitted (cross-file dedup in watch mode). The set is
	// updated in place with the keys of retained rows.
	Seen *KeySet
	// Logger receives schema warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Summary reports the outcome of one dedup pass.
type Summary struct {
	RowsIn  int `json:"rows_in"`
	RowsOut int `json:"rows_out"`
	Removed int `json:"removed"`
}

// Dedupe computes the canonical name of every row and retains, per
// distinct canonical key, only the first row in input order. The empty
// key is a normal, matchable key: all rows whose name normalizes to ""
// collapse into one. The input table is not mutated. Output rows are
// sized to the output schema: cells beyond the declared columns are
// dropped, missing cells come out empty.
//
// Returns a *MissingColumnError when the name column is absent from
// the schema; this is checked once, never per row.
func Dedupe(t *Table, opts Options) (*Table, *Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	col := opts.NameColumn
	if col == "" {
		col = DefaultNameColumn
	}

	nameIdx := t.ColumnIndex(col)
	if nameIdx < 0 {
		return nil, nil, &MissingColumnError{Column: col, Columns: t.Columns}
	}

	out := &Table{Columns: append([]string(nil), t.Columns...)}

	// Where the canonical name lands when kept. A pre-existing
	// _norm_name column is overwritten rather than duplicated.
	normIdx := -1
	if opts.KeepNormColumn {
		normIdx = t.ColumnIndex(NormColumn)
		if normIdx >= 0 {
			logger.Warn("input already has a canonical name column, overwriting", "column", NormColumn)
		} else {
			out.Columns = append(out.Columns, NormColumn)
			normIdx = len(out.Columns) - 1
		}
	}

	seen := opts.Seen
	if seen == nil {
		seen = NewKeySet()
	}

	for _, row := range t.Rows {
		key := names.Normalize(t.Value(row, nameIdx), opts.StripSuffixes)
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)

		kept := make([]string, len(out.Columns))
		copy(kept, row)
		if normIdx >= 0 {
			kept[normIdx] = key
		}
		out.Rows = append(out.Rows, kept)
	}

	sum := &Summary{
		RowsIn:  len(t.Rows),
		RowsOut: len(out.Rows),
		Removed: len(t.Rows) - len(out.Rows),
	}
	return out, sum, nil
}
