package sacct

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWindow(t *testing.T) {
	day := time.Date(2025, 2, 26, 14, 30, 0, 0, time.Local)
	start, end := Window(day)

	if start != "2025-02-26T00:00:00" {
		t.Errorf("start = %q, want %q", start, "2025-02-26T00:00:00")
	}
	if end != "2025-02-26T23:59:59" {
		t.Errorf("end = %q, want %q", end, "2025-02-26T23:59:59")
	}
}

func TestArgs(t *testing.T) {
	day := time.Date(2025, 2, 26, 0, 0, 0, 0, time.Local)
	got := Args(day)
	want := []string{"-a", "-P", "-o", "ALL", "-S", "2025-02-26T00:00:00", "-E", "2025-02-26T23:59:59"}

	if len(got) != len(want) {
		t.Fatalf("Args returned %d args, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// stubRunner returns canned output or a canned error.
type stubRunner struct {
	out []byte
	err error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args []string) ([]byte, error) {
	s.gotName = name
	s.gotArgs = args
	return s.out, s.err
}

func TestExtractWritesStagingFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "2025-02-26.csv")

	runner := &stubRunner{out: []byte("JobID|State\n123|COMPLETED\n")}
	e := &Extractor{
		Runner: runner,
		Binary: "sacct",
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	day := time.Date(2025, 2, 26, 0, 0, 0, 0, time.Local)
	if err := e.Extract(context.Background(), day, out); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if runner.gotName != "sacct" {
		t.Errorf("runner invoked %q, want %q", runner.gotName, "sacct")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading staging file: %v", err)
	}
	if string(data) != "JobID|State\n123|COMPLETED\n" {
		t.Errorf("staging content = %q", string(data))
	}

	// No temp file left behind.
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file still present after Extract")
	}
}

func TestExtractFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "2025-02-26.csv")

	runner := &stubRunner{err: errors.New("slurm_persist_conn_open: connection refused")}
	e := &Extractor{
		Runner: runner,
		Binary: "sacct",
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	day := time.Date(2025, 2, 26, 0, 0, 0, 0, time.Local)
	if err := e.Extract(context.Background(), day, out); err == nil {
		t.Fatal("Extract should fail when the runner fails")
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("staging file exists after failed extraction")
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(generic) = %d, want 1", got)
	}
}
