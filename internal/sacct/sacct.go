// Package sacct invokes the Slurm accounting command for a one-day window
// and writes its raw pipe-delimited dump to a staging file.
package sacct

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const timeLayout = "2006-01-02T15:04:05"

// Window returns the sacct -S/-E bounds covering the given calendar day.
func Window(day time.Time) (start, end string) {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := time.Date(y, m, d, 23, 59, 59, 0, day.Location())
	return dayStart.Format(timeLayout), dayEnd.Format(timeLayout)
}

// Args builds the sacct argument list for one day: all users, all fields,
// pipe-delimited with a header row.
func Args(day time.Time) []string {
	start, end := Window(day)
	return []string{"-a", "-P", "-o", "ALL", "-S", start, "-E", end}
}

// Extractor pulls one day of accounting data into a staging file.
type Extractor struct {
	Runner Runner
	Binary string
	Logger *slog.Logger
}

// Extract runs the accounting query for the given day and writes the output
// to outPath via a temporary file. On failure no staging file is left
// behind and the command's exit status is preserved in the returned error
// (see ExitCode).
func (e *Extractor) Extract(ctx context.Context, day time.Time, outPath string) error {
	args := Args(day)
	e.Logger.Info("running accounting query",
		"binary", e.Binary,
		"date", day.Format("2006-01-02"))

	out, err := e.Runner.Run(ctx, e.Binary, args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("writing staging file: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming staging file: %w", err)
	}

	e.Logger.Info("accounting dump staged", "path", outPath, "bytes", len(out))
	return nil
}
