package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"slurmeff/internal/store"
)

// Generator produces the per-day JSON summary and HTML report.
type Generator struct {
	Store    *store.ParquetStore
	Capacity Capacity
	Logger   *slog.Logger
}

// Generate reads the Parquet file for a date, computes the daily summary,
// writes it to <database>/<date>.json, and renders the HTML report to
// htmlPath. Both files are written via temp + rename. A missing Parquet
// file is an error; a Parquet file with zero jobs is not.
func (g *Generator) Generate(date string, htmlPath string) (Summary, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	rows, err := g.Store.ReadDay(date)
	if err != nil {
		return Summary{}, err
	}

	summary := ComputeDaily(rows, day, g.Capacity)

	if err := WriteSummary(g.Store.SummaryPath(date), summary); err != nil {
		return Summary{}, err
	}
	g.Logger.Info("summary written",
		"date", date,
		"jobs", summary.JobCount,
		"mem_occupancy_pct", summary.Global.MemOccupancyPct)

	html, err := RenderDaily(summary, time.Now())
	if err != nil {
		return Summary{}, fmt.Errorf("rendering report: %w", err)
	}
	if err := writeAtomic(htmlPath, html); err != nil {
		return Summary{}, fmt.Errorf("writing report: %w", err)
	}
	g.Logger.Info("report written", "path", htmlPath)

	return summary, nil
}

// WriteSummary writes the JSON summary atomically. The encoding is
// deterministic (sorted map keys, stable float formatting) so regenerating
// a day produces a byte-identical file.
func WriteSummary(path string, summary Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// ReadSummary loads one day's JSON summary.
func ReadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
