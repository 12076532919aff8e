package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunLedger = (*SQLiteLedger)(nil)

// Run is one recorded pipeline stage execution.
type Run struct {
	ID         int64
	Date       string // target day, YYYY-MM-DD
	Stage      string // extract | convert | report
	Rows       int
	Status     string // ok | failed
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// SQLiteLedger implements RunLedger backed by a SQLite database.
type SQLiteLedger struct {
	db *sql.DB
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	stage       TEXT NOT NULL,
	rows        INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_date ON runs(date);
`

// NewSQLiteLedger opens (or creates) a SQLite database at dbPath and makes
// sure the runs table exists.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteLedger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// RecordRun appends one stage execution to the ledger.
func (l *SQLiteLedger) RecordRun(ctx context.Context, run Run) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (date, stage, rows, status, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Date, run.Stage, run.Rows, run.Status, run.Error,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339))
	return err
}

// ListRuns returns all recorded executions for a date, oldest first.
func (l *SQLiteLedger) ListRuns(ctx context.Context, date string) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, date, stage, rows, status, error, started_at, finished_at
		 FROM runs WHERE date = ? ORDER BY id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Date, &r.Stage, &r.Rows, &r.Status, &r.Error, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
