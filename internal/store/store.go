// Package store persists accounting data: one Parquet file per calendar day
// plus a SQLite ledger of pipeline runs.
package store

import "context"

// DayStore persists and retrieves one day of accounting rows.
type DayStore interface {
	// WriteDay atomically replaces the Parquet file for a date (YYYY-MM-DD).
	WriteDay(date string, rows []JobRow) error

	// ReadDay returns all rows stored for a date.
	ReadDay(date string) ([]JobRow, error)

	// ListDays returns the sorted dates that have a Parquet file.
	ListDays() ([]string, error)
}

// RunLedger records pipeline stage executions.
type RunLedger interface {
	// RecordRun appends one stage execution to the ledger.
	RecordRun(ctx context.Context, run Run) error

	// ListRuns returns all recorded executions for a date, oldest first.
	ListRuns(ctx context.Context, date string) ([]Run, error)

	Close() error
}
