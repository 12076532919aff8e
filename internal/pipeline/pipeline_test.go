package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slurmeff/internal/config"
	"slurmeff/internal/store"
)

// stubRunner stands in for the accounting command.
type stubRunner struct {
	output []byte
	err    error
	calls  int
}

func (s *stubRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	s.calls++
	return s.output, s.err
}

// dump renders a full-width accounting dump from sparse row maps.
func dump(rows []map[string]string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(store.Columns, "|"))
	b.WriteByte('\n')
	for _, row := range rows {
		fields := make([]string, len(store.Columns))
		for i, name := range store.Columns {
			fields[i] = row[name]
		}
		b.WriteString(strings.Join(fields, "|"))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.DatabaseDir = filepath.Join(dir, "db")
	cfg.Storage.SpoolDir = filepath.Join(dir, "spool")
	cfg.Storage.ReportDir = filepath.Join(dir, "reports")
	cfg.Storage.LedgerPath = filepath.Join(dir, "runs.db")
	cfg.Sacct.Binary = "sacct"
	cfg.Sacct.Columns = len(store.Columns)
	cfg.Sacct.Separator = "|"
	cfg.Capacity.CPUs = 424
	cfg.Capacity.MemoryGB = 2183
	cfg.Schedule.Cron = "15 0 * * *"
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestRunDay(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	runner := &stubRunner{output: dump([]map[string]string{
		{
			"JobID": "100", "QOS": "normal", "State": "COMPLETED",
			"AllocCPUS": "8", "ElapsedRaw": "7200", "TotalCPU": "01:00:00", "ReqMem": "16G",
			"Submit": "2025-02-26T09:50:00", "Start": "2025-02-26T10:00:00", "End": "2025-02-26T12:00:00",
		},
		{"JobID": "100.batch", "State": "COMPLETED", "ElapsedRaw": "7200", "MaxRSS": "4000M"},
	})}
	p.Extractor().Runner = runner

	ctx := context.Background()
	if err := p.RunDay(ctx, "2025-02-26"); err != nil {
		t.Fatalf("RunDay: %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("accounting command ran %d times, want 1", runner.calls)
	}

	// All three artifacts in place, staging gone.
	for _, path := range []string{
		p.Store().DayPath("2025-02-26"),
		p.Store().SummaryPath("2025-02-26"),
		p.ReportPath("2025-02-26"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact %s: %v", path, err)
		}
	}
	if _, err := os.Stat(p.StagingPath("2025-02-26")); !os.IsNotExist(err) {
		t.Error("staging file survived the pipeline")
	}

	// Ledger holds one ok run per stage.
	ledger, err := store.NewSQLiteLedger(cfg.Storage.LedgerPath)
	if err != nil {
		t.Fatal(err)
	}
	defer ledger.Close()
	runs, err := ledger.ListRuns(ctx, "2025-02-26")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("ledger has %d runs, want 3", len(runs))
	}
	for i, stage := range []string{"extract", "convert", "report"} {
		if runs[i].Stage != stage || runs[i].Status != "ok" {
			t.Errorf("run %d = %s/%s, want %s/ok", i, runs[i].Stage, runs[i].Status, stage)
		}
	}
	if runs[1].Rows != 2 {
		t.Errorf("convert run Rows = %d, want 2", runs[1].Rows)
	}
}

func TestRunDayIdempotent(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	p.Extractor().Runner = &stubRunner{output: dump([]map[string]string{
		{
			"JobID": "7", "QOS": "normal", "State": "COMPLETED",
			"AllocCPUS": "1", "ElapsedRaw": "600", "TotalCPU": "00:05:00",
			"Submit": "2025-02-26T08:00:00", "Start": "2025-02-26T08:01:00", "End": "2025-02-26T08:11:00",
		},
	})}

	ctx := context.Background()
	if err := p.RunDay(ctx, "2025-02-26"); err != nil {
		t.Fatalf("first RunDay: %v", err)
	}
	first, err := os.ReadFile(p.Store().SummaryPath("2025-02-26"))
	if err != nil {
		t.Fatal(err)
	}

	if err := p.RunDay(ctx, "2025-02-26"); err != nil {
		t.Fatalf("second RunDay: %v", err)
	}
	second, err := os.ReadFile(p.Store().SummaryPath("2025-02-26"))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("re-running a day produced different summary bytes")
	}
}

func TestRunDayExtractFailure(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	p.Extractor().Runner = &stubRunner{err: errors.New("slurm_persist_conn_open_without_init failure")}

	ctx := context.Background()
	if err := p.RunDay(ctx, "2025-02-26"); err == nil {
		t.Fatal("RunDay should fail when extraction fails")
	}

	// Later stages never ran.
	if _, err := os.Stat(p.Store().DayPath("2025-02-26")); !os.IsNotExist(err) {
		t.Error("parquet file exists despite failed extraction")
	}

	ledger, err := store.NewSQLiteLedger(cfg.Storage.LedgerPath)
	if err != nil {
		t.Fatal(err)
	}
	defer ledger.Close()
	runs, err := ledger.ListRuns(ctx, "2025-02-26")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("ledger has %d runs, want 1", len(runs))
	}
	if runs[0].Stage != "extract" || runs[0].Status != "failed" || runs[0].Error == "" {
		t.Errorf("run = %+v, want failed extract with error text", runs[0])
	}
}

func TestRunDayBadDate(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.RunDay(context.Background(), "yesterday"); err == nil {
		t.Fatal("RunDay should reject a malformed date")
	}
}

func TestRunDaemonBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.Cron = "not a schedule"
	p, err := New(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.RunDaemon(context.Background()); err == nil {
		t.Fatal("RunDaemon should reject an invalid cron expression")
	}
}
