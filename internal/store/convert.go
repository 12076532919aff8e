package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ConvertStats describes the outcome of one CSV-to-Parquet conversion.
type ConvertStats struct {
	Rows    int // rows written to the Parquet file
	Dropped int // malformed lines skipped by the sanitizer
}

// ConvertFile converts a raw sacct dump (pipe-delimited, header row first)
// into a typed Parquet file, then removes the staging file. The staging
// file is deleted only after the Parquet write has succeeded; on any error
// it is left in place and no output file appears.
//
// Lines whose field count differs from the header (multi-line SubmitLine
// values, truncated writes) are dropped, matching the sanitizer contract of
// the accounting dump: a valid line contains exactly columns-1 separators.
func ConvertFile(input, output, separator string, columns int) (ConvertStats, error) {
	var stats ConvertStats

	f, err := os.Open(input)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// SubmitLine and WorkDir can make rows very long.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return stats, err
		}
		return stats, fmt.Errorf("%s: empty accounting dump (missing header)", input)
	}

	header := strings.Split(scanner.Text(), separator)
	if len(header) != columns {
		return stats, fmt.Errorf("%s: header has %d columns, want %d", input, len(header), columns)
	}
	for _, name := range header {
		var probe JobRow
		if !setField(&probe, name, "") {
			return stats, fmt.Errorf("%s: unknown accounting column %q", input, name)
		}
	}

	var rows []JobRow
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Count(line, separator) != columns-1 {
			stats.Dropped++
			continue
		}
		fields := strings.Split(line, separator)

		var row JobRow
		for i, name := range header {
			setField(&row, name, fields[i])
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	stats.Rows = len(rows)

	if err := writeParquetFile(output, rows); err != nil {
		return stats, fmt.Errorf("writing %s: %w", output, err)
	}

	// Contract: the staging file goes away only once the columnar file is
	// safely in place.
	if err := os.Remove(input); err != nil {
		return stats, fmt.Errorf("removing staging file: %w", err)
	}
	return stats, nil
}
