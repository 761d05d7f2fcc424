// CLAUDE:SUMMARY SQLite-backed history of dedup runs: inputs, row counts, status, timing.
package rundb

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run is a row from the dedupe_runs table.
type Run struct {
	ID         int64   `json:"id"`
	Input      string  `json:"input"`
	Output     string  `json:"output"`
	RowsIn     int     `json:"rows_in"`
	RowsOut    int     `json:"rows_out"`
	Removed    int     `json:"removed"`
	Status     string  `json:"status"`
	Error      *string `json:"error,omitempty"`
	StartedAt  int64   `json:"started_at"`
	DurationMS int64   `json:"duration_ms"`
}

// Statuses recorded per run.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// DB manages the dedupe_runs SQLite table.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// dedupe_runs table exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open run db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS dedupe_runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		input       TEXT NOT NULL,
		output      TEXT NOT NULL,
		rows_in     INTEGER NOT NULL DEFAULT 0,
		rows_out    INTEGER NOT NULL DEFAULT 0,
		removed     INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL,
		error       TEXT,
		started_at  INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create dedupe_runs table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying SQLite handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record inserts one finished run and returns its ID.
func (d *DB) Record(r Run) (int64, error) {
	const q = `INSERT INTO dedupe_runs
		(input, output, rows_in, rows_out, removed, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := d.db.Exec(q, r.Input, r.Output, r.RowsIn, r.RowsOut, r.Removed,
		r.Status, r.Error, r.StartedAt, r.DurationMS)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run id: %w", err)
	}
	return id, nil
}

// RecordFailure is a convenience for recording a run that never
// produced output.
func (d *DB) RecordFailure(input string, startedAt time.Time, runErr error) (int64, error) {
	msg := runErr.Error()
	return d.Record(Run{
		Input:      input,
		Status:     StatusFailed,
		Error:      &msg,
		StartedAt:  startedAt.Unix(),
		DurationMS: time.Since(startedAt).Milliseconds(),
	})
}

// ListRuns returns the most recent runs, newest first. limit <= 0
// means no limit.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	q := `SELECT id, input, output, rows_in, rows_out, removed, status, error, started_at, duration_ms
		FROM dedupe_runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.RowsIn, &r.RowsOut,
			&r.Removed, &r.Status, &r.Error, &r.StartedAt, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRunFor returns the newest run for a given input path, or nil.
func (d *DB) LastRunFor(input string) (*Run, error) {
	const q = `SELECT id, input, output, rows_in, rows_out, removed, status, error, started_at, duration_ms
		FROM dedupe_runs WHERE input = ? ORDER BY id DESC LIMIT 1`

	var r Run
	err := d.db.QueryRow(q, input).Scan(&r.ID, &r.Input, &r.Output, &r.RowsIn, &r.RowsOut,
		&r.Removed, &r.Status, &r.Error, &r.StartedAt, &r.DurationMS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run for %s: %w", input, err)
	}
	return &r, nil
}
