package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeDump writes a pipe-delimited accounting dump with the full header
// and one line per row map (absent columns are left empty).
func writeDump(t *testing.T, path string, rows []map[string]string) {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(Columns, "|"))
	b.WriteByte('\n')
	for _, row := range rows {
		fields := make([]string, len(Columns))
		for i, name := range Columns {
			fields[i] = row[name]
		}
		b.WriteString(strings.Join(fields, "|"))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("writing dump: %v", err)
	}
}

func TestColumnsMatchSchema(t *testing.T) {
	if len(Columns) != 109 {
		t.Fatalf("len(Columns) = %d, want 109", len(Columns))
	}
	for _, name := range Columns {
		var row JobRow
		if !setField(&row, name, "") {
			t.Errorf("setField does not know column %q", name)
		}
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "2025-02-26.csv")
	output := filepath.Join(dir, "2025-02-26.parquet")

	writeDump(t, input, []map[string]string{
		{"JobID": "100", "Account": "genomics", "State": "COMPLETED", "AllocCPUS": "8", "ElapsedRaw": "3600", "ReqMem": "16G", "QOS": "normal"},
		{"JobID": "100.batch", "State": "COMPLETED", "AllocCPUS": "8", "ElapsedRaw": "3600", "MaxRSS": "4000M"},
		{"JobID": "100.extern", "State": "COMPLETED", "AllocCPUS": "8", "ElapsedRaw": "3600"},
		{"JobID": "101", "Account": "imaging", "State": "FAILED", "AllocCPUS": "2", "ElapsedRaw": "120", "ReqMem": "4G", "QOS": "urgent"},
		{"JobID": "101.batch", "State": "FAILED", "AllocCPUS": "2", "ElapsedRaw": "120", "MaxRSS": "512M"},
	})

	stats, err := ConvertFile(input, output, "|", len(Columns))
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if stats.Rows != 5 {
		t.Errorf("stats.Rows = %d, want 5", stats.Rows)
	}
	if stats.Dropped != 0 {
		t.Errorf("stats.Dropped = %d, want 0", stats.Dropped)
	}

	// Contract: staging file removed after success.
	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Error("staging file still exists after successful conversion")
	}

	ps := NewParquetStore(dir)
	rows, err := ps.ReadDay("2025-02-26")
	if err != nil {
		t.Fatalf("ReadDay: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("ReadDay returned %d rows, want 5", len(rows))
	}
	if rows[0].JobID != "100" || rows[0].Account != "genomics" {
		t.Errorf("row 0 = JobID %q Account %q, want 100/genomics", rows[0].JobID, rows[0].Account)
	}
	if rows[0].AllocCPUS == nil || *rows[0].AllocCPUS != 8 {
		t.Errorf("row 0 AllocCPUS = %v, want 8", rows[0].AllocCPUS)
	}
	if rows[1].MaxRSS != "4000M" {
		t.Errorf("row 1 MaxRSS = %q, want 4000M", rows[1].MaxRSS)
	}
	if rows[3].QOS != "urgent" {
		t.Errorf("row 3 QOS = %q, want urgent", rows[3].QOS)
	}
	// Empty numeric column stays null.
	if rows[0].MaxRSSTask != nil {
		t.Errorf("row 0 MaxRSSTask = %v, want nil", rows[0].MaxRSSTask)
	}
}

func TestConvertFileDropsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "dump.csv")
	output := filepath.Join(dir, "dump.parquet")

	writeDump(t, input, []map[string]string{
		{"JobID": "100", "State": "COMPLETED"},
	})

	// Append a line with a stray separator count (SubmitLine split across
	// lines by a job script with embedded newlines).
	f, err := os.OpenFile(input, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("garbage|line\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	stats, err := ConvertFile(input, output, "|", len(Columns))
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if stats.Rows != 1 {
		t.Errorf("stats.Rows = %d, want 1", stats.Rows)
	}
	if stats.Dropped != 1 {
		t.Errorf("stats.Dropped = %d, want 1", stats.Dropped)
	}
}

func TestConvertFileUnknownColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "dump.csv")
	output := filepath.Join(dir, "dump.parquet")

	header := strings.Join(Columns[:len(Columns)-1], "|") + "|Bogus"
	if err := os.WriteFile(input, []byte(header+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ConvertFile(input, output, "|", len(Columns)); err == nil {
		t.Fatal("ConvertFile should reject an unknown column")
	}

	// On failure the staging file stays and no output appears.
	if _, err := os.Stat(input); err != nil {
		t.Errorf("staging file should survive a failed conversion: %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output file exists after failed conversion")
	}
}

func TestParquetStorePaths(t *testing.T) {
	ps := NewParquetStore("/data/db")

	if got, want := ps.DayPath("2025-02-26"), filepath.Join("/data/db", "2025-02-26.parquet"); got != want {
		t.Errorf("DayPath = %q, want %q", got, want)
	}
	if got, want := ps.SummaryPath("2025-02-26"), filepath.Join("/data/db", "2025-02-26.json"); got != want {
		t.Errorf("SummaryPath = %q, want %q", got, want)
	}
}

func TestParquetStoreWriteReadListDays(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)

	cpus := int64(4)
	rows := []JobRow{
		{JobID: "42", State: "COMPLETED", AllocCPUS: &cpus},
	}
	if err := ps.WriteDay("2025-02-26", rows); err != nil {
		t.Fatalf("WriteDay: %v", err)
	}
	if err := ps.WriteDay("2025-02-25", rows); err != nil {
		t.Fatalf("WriteDay: %v", err)
	}

	got, err := ps.ReadDay("2025-02-26")
	if err != nil {
		t.Fatalf("ReadDay: %v", err)
	}
	if len(got) != 1 || got[0].JobID != "42" {
		t.Fatalf("ReadDay = %+v, want one row with JobID 42", got)
	}
	if got[0].AllocCPUS == nil || *got[0].AllocCPUS != 4 {
		t.Errorf("AllocCPUS = %v, want 4", got[0].AllocCPUS)
	}

	days, err := ps.ListDays()
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	if len(days) != 2 || days[0] != "2025-02-25" || days[1] != "2025-02-26" {
		t.Errorf("ListDays = %v, want sorted two days", days)
	}
}

func TestSQLiteLedger(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewSQLiteLedger(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteLedger: %v", err)
	}
	defer func() {
		if cerr := ledger.Close(); cerr != nil {
			t.Errorf("Close() returned error: %v", cerr)
		}
	}()

	ctx := context.Background()
	now := time.Now()

	runs := []Run{
		{Date: "2025-02-26", Stage: "extract", Status: "ok", StartedAt: now, FinishedAt: now},
		{Date: "2025-02-26", Stage: "convert", Rows: 5, Status: "ok", StartedAt: now, FinishedAt: now},
		{Date: "2025-02-26", Stage: "report", Status: "failed", Error: "missing parquet", StartedAt: now, FinishedAt: now},
	}
	for _, r := range runs {
		if err := ledger.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun(%s): %v", r.Stage, err)
		}
	}

	got, err := ledger.ListRuns(ctx, "2025-02-26")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListRuns returned %d runs, want 3", len(got))
	}
	if got[0].Stage != "extract" || got[1].Stage != "convert" || got[2].Stage != "report" {
		t.Errorf("stages out of order: %v, %v, %v", got[0].Stage, got[1].Stage, got[2].Stage)
	}
	if got[1].Rows != 5 {
		t.Errorf("convert run Rows = %d, want 5", got[1].Rows)
	}
	if got[2].Status != "failed" || got[2].Error != "missing parquet" {
		t.Errorf("report run = %+v, want failed/missing parquet", got[2])
	}

	other, err := ledger.ListRuns(ctx, "2025-02-25")
	if err != nil {
		t.Fatalf("ListRuns (other date): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("ListRuns for unrecorded date returned %d runs, want 0", len(other))
	}
}
