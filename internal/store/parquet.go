package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Compile-time interface check.
var _ DayStore = (*ParquetStore)(nil)

// ParquetStore implements DayStore as a flat directory of per-day Parquet
// files named <YYYY-MM-DD>.parquet.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given database
// directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// DayPath returns the filesystem path for one day's Parquet file.
func (s *ParquetStore) DayPath(date string) string {
	return filepath.Join(s.DataDir, date+".parquet")
}

// SummaryPath returns the filesystem path for one day's JSON summary.
func (s *ParquetStore) SummaryPath(date string) string {
	return filepath.Join(s.DataDir, date+".json")
}

// WriteDay atomically replaces the Parquet file for a date. The file is
// written next to its final path and renamed into place so a concurrent
// reader never observes a partial file.
func (s *ParquetStore) WriteDay(date string, rows []JobRow) error {
	return writeParquetFile(s.DayPath(date), rows)
}

// ReadDay returns all rows stored for a date.
func (s *ParquetStore) ReadDay(date string) ([]JobRow, error) {
	rows, err := parquet.ReadFile[JobRow](s.DayPath(date))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.DayPath(date), err)
	}
	return rows, nil
}

// ListDays returns the sorted dates (YYYY-MM-DD) that have a Parquet file.
func (s *ParquetStore) ListDays() ([]string, error) {
	return s.listBySuffix(".parquet")
}

// ListSummaryDays returns the sorted dates that have a JSON summary.
func (s *ParquetStore) ListSummaryDays() ([]string, error) {
	return s.listBySuffix(".json")
}

func (s *ParquetStore) listBySuffix(suffix string) ([]string, error) {
	entries, err := os.ReadDir(s.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		dates = append(dates, strings.TrimSuffix(e.Name(), suffix))
	}
	sort.Strings(dates)
	return dates, nil
}

// writeParquetFile writes records to path via a temporary file + rename.
func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := parquet.WriteFile(tmp, records); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
