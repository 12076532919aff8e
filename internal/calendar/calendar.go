// Package calendar aggregates the per-day JSON summaries into a single HTML
// calendar: one month grid per month in the range, each day cell colored by
// RAM occupancy, plus a period-wide totals table.
package calendar

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"slurmeff/internal/report"
	"slurmeff/internal/store"
)

// Builder renders the calendar view over a date range.
type Builder struct {
	Store  *store.ParquetStore
	Logger *slog.Logger
}

// dayCell is one square of a month grid. Pad marks the leading/trailing
// cells that belong to a neighboring month.
type dayCell struct {
	Day     int
	Pad     bool
	HasData bool
	Jobs    int
	MemPct  float64
	CPUPct  float64
	Color   string
}

type monthGrid struct {
	Title string
	Weeks [][]dayCell
}

// periodStats is the totals table under the grids.
type periodStats struct {
	DaysWithData    int
	DaysMissing     int
	TotalJobs       int
	AvgJobsPerDay   float64
	CPUHours        float64
	MeanWaitSeconds *float64
}

// colorFor maps a RAM occupancy percentage to a cell background. Both very
// low and very high occupancy are flagged red: idle capacity and
// oversubscription are both problems worth a glance.
func colorFor(pct float64) string {
	switch {
	case pct <= 20:
		return "#ff0000"
	case pct <= 60:
		return "#d4a500"
	case pct <= 75:
		return "#ffa500"
	case pct <= 100:
		return "#008000"
	case pct <= 125:
		return "#ffa500"
	default:
		return "#ff0000"
	}
}

// Build renders the calendar for [from, to] (YYYY-MM-DD, inclusive) to
// outPath. Empty from/to default to the first/last day that has a JSON
// summary. Days in range without a summary render as "no data" cells, never
// as an error.
func (b *Builder) Build(from, to, outPath string) error {
	if from == "" || to == "" {
		days, err := b.Store.ListSummaryDays()
		if err != nil {
			return err
		}
		if len(days) == 0 {
			return fmt.Errorf("no summaries found in %s and no explicit range given", b.Store.DataDir)
		}
		if from == "" {
			from = days[0]
		}
		if to == "" {
			to = days[len(days)-1]
		}
	}

	start, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.ParseInLocation("2006-01-02", to, time.Local)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", to, err)
	}
	if end.Before(start) {
		return fmt.Errorf("range end %s is before start %s", to, from)
	}

	summaries := make(map[string]report.Summary)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		s, err := report.ReadSummary(b.Store.SummaryPath(date))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		summaries[date] = s
	}

	page := buildPage(start, end, summaries)
	page.Generated = time.Now().Format("2006-01-02 15:04:05")

	html, err := render(page)
	if err != nil {
		return fmt.Errorf("rendering calendar: %w", err)
	}
	if err := writeAtomic(outPath, html); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	b.Logger.Info("calendar written",
		"path", outPath,
		"from", from,
		"to", to,
		"days_with_data", page.Period.DaysWithData,
		"days_missing", page.Period.DaysMissing)
	return nil
}

// dayDetail is one row of the per-day table under the grids.
type dayDetail struct {
	Date     string
	Jobs     int
	CPUPct   float64
	MemPct   float64
	MeanWait *float64
}

type calendarPage struct {
	From      string
	To        string
	Months    []monthGrid
	Days      []dayDetail
	Period    periodStats
	Generated string
}

func buildPage(start, end time.Time, summaries map[string]report.Summary) calendarPage {
	page := calendarPage{
		From: start.Format("2006-01-02"),
		To:   end.Format("2006-01-02"),
	}

	var waitSum float64
	var waitN int

	// One grid per calendar month touched by the range.
	for first := monthStart(start); !first.After(end); first = first.AddDate(0, 1, 0) {
		grid := monthGrid{Title: first.Format("January 2006")}

		week := make([]dayCell, 0, 7)
		for i := 0; i < mondayIndex(first.Weekday()); i++ {
			week = append(week, dayCell{Pad: true})
		}

		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			cell := dayCell{Day: d.Day()}
			if d.Before(start) || d.After(end) {
				cell.Pad = true
			} else if s, ok := summaries[d.Format("2006-01-02")]; ok {
				cell.HasData = true
				cell.Jobs = s.JobCount
				cell.MemPct = s.Global.MemOccupancyPct
				cell.CPUPct = s.Global.CPUUtilizationPct
				cell.Color = colorFor(s.Global.MemOccupancyPct)

				page.Period.DaysWithData++
				page.Period.TotalJobs += s.JobCount
				page.Period.CPUHours += s.Global.CPUHours
				if s.Global.WaitMeanSeconds != nil {
					waitSum += *s.Global.WaitMeanSeconds
					waitN++
				}
				page.Days = append(page.Days, dayDetail{
					Date:     s.Date,
					Jobs:     s.JobCount,
					CPUPct:   s.Global.CPUUtilizationPct,
					MemPct:   s.Global.MemOccupancyPct,
					MeanWait: s.Global.WaitMeanSeconds,
				})
			} else {
				page.Period.DaysMissing++
			}

			week = append(week, cell)
			if len(week) == 7 {
				grid.Weeks = append(grid.Weeks, week)
				week = make([]dayCell, 0, 7)
			}
		}
		if len(week) > 0 {
			for len(week) < 7 {
				week = append(week, dayCell{Pad: true})
			}
			grid.Weeks = append(grid.Weeks, week)
		}

		page.Months = append(page.Months, grid)
	}

	if page.Period.DaysWithData > 0 {
		page.Period.AvgJobsPerDay = float64(page.Period.TotalJobs) / float64(page.Period.DaysWithData)
	}
	if waitN > 0 {
		mean := waitSum / float64(waitN)
		page.Period.MeanWaitSeconds = &mean
	}
	return page
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// mondayIndex maps a weekday to its column in a Monday-first week.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
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
