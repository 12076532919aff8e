package calendar

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slurmeff/internal/report"
	"slurmeff/internal/store"
)

func testBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	dir := t.TempDir()
	return &Builder{
		Store:  store.NewParquetStore(dir),
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}, dir
}

func writeSummary(t *testing.T, b *Builder, date string, jobs int, memPct float64) {
	t.Helper()
	wait := 120.0
	s := report.Summary{
		Date:     date,
		JobCount: jobs,
		Global: report.Metrics{
			JobCount:        jobs,
			CPUHours:        float64(jobs) * 2,
			MemOccupancyPct: memPct,
			WaitMeanSeconds: &wait,
		},
		QOS: map[string]report.Metrics{},
	}
	if err := report.WriteSummary(b.Store.SummaryPath(date), s); err != nil {
		t.Fatalf("WriteSummary(%s): %v", date, err)
	}
}

func TestBuildMixedRange(t *testing.T) {
	b, dir := testBuilder(t)

	// 10-day range, summaries for 7 days, 3 days missing.
	missing := map[string]bool{
		"2025-03-03": true,
		"2025-03-07": true,
		"2025-03-09": true,
	}
	for day := 1; day <= 10; day++ {
		date := "2025-03-0" + string(rune('0'+day))
		if day == 10 {
			date = "2025-03-10"
		}
		if missing[date] {
			continue
		}
		writeSummary(t, b, date, day*10, 80)
	}

	out := filepath.Join(dir, "calendar.html")
	if err := b.Build("2025-03-01", "2025-03-10", out); err != nil {
		t.Fatalf("Build: %v", err)
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	page := string(html)

	if got := strings.Count(page, `class="day"`); got != 7 {
		t.Errorf("populated cells = %d, want 7", got)
	}
	if got := strings.Count(page, `class="no-data"`); got != 3 {
		t.Errorf("no-data cells = %d, want 3", got)
	}
	if !strings.Contains(page, "March 2025") {
		t.Error("month title missing")
	}
	// Period totals: jobs for days 1,2,4,5,6,8,10 at 10 jobs per day index.
	if !strings.Contains(page, "<td>360</td>") {
		t.Error("total jobs missing from the period table")
	}
}

func TestBuildDefaultRange(t *testing.T) {
	b, dir := testBuilder(t)

	writeSummary(t, b, "2025-02-24", 5, 50)
	writeSummary(t, b, "2025-02-26", 7, 90)

	out := filepath.Join(dir, "calendar.html")
	if err := b.Build("", "", out); err != nil {
		t.Fatalf("Build: %v", err)
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	page := string(html)

	if !strings.Contains(page, "2025-02-24 to 2025-02-26") {
		t.Error("default range should span first to last summary")
	}
	if got := strings.Count(page, `class="day"`); got != 2 {
		t.Errorf("populated cells = %d, want 2", got)
	}
	if got := strings.Count(page, `class="no-data"`); got != 1 {
		t.Errorf("no-data cells = %d, want 1", got)
	}
}

func TestBuildNoSummaries(t *testing.T) {
	b, dir := testBuilder(t)
	if err := b.Build("", "", filepath.Join(dir, "calendar.html")); err == nil {
		t.Fatal("Build with no summaries and no range should fail")
	}
}

func TestBuildBadRange(t *testing.T) {
	b, dir := testBuilder(t)
	writeSummary(t, b, "2025-02-26", 1, 50)
	out := filepath.Join(dir, "calendar.html")

	if err := b.Build("2025-02-26", "2025-02-20", out); err == nil {
		t.Error("Build should reject end before start")
	}
	if err := b.Build("garbage", "2025-02-26", out); err == nil {
		t.Error("Build should reject a malformed start date")
	}
}

func TestColorFor(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "#ff0000"},
		{20, "#ff0000"},
		{21, "#d4a500"},
		{60, "#d4a500"},
		{61, "#ffa500"},
		{75, "#ffa500"},
		{76, "#008000"},
		{100, "#008000"},
		{101, "#ffa500"},
		{125, "#ffa500"},
		{126, "#ff0000"},
		{400, "#ff0000"},
	}
	for _, c := range cases {
		if got := colorFor(c.pct); got != c.want {
			t.Errorf("colorFor(%v) = %s, want %s", c.pct, got, c.want)
		}
	}
}

func TestMondayIndex(t *testing.T) {
	// 2025-03-01 is a Saturday: column 5 in a Monday-first week.
	if got := mondayIndex(6); got != 5 {
		t.Errorf("mondayIndex(Saturday) = %d, want 5", got)
	}
	if got := mondayIndex(0); got != 6 {
		t.Errorf("mondayIndex(Sunday) = %d, want 6", got)
	}
	if got := mondayIndex(1); got != 0 {
		t.Errorf("mondayIndex(Monday) = %d, want 0", got)
	}
}
