// Package report computes daily cluster efficiency metrics from one day of
// accounting rows and renders them as a JSON summary plus an HTML report.
package report

import (
	"sort"
	"time"

	"slurmeff/internal/domain"
	"slurmeff/internal/store"
)

// Job is one allocation after step rollup: the batch/extern/step rows of a
// job collapsed into a single record.
type Job struct {
	JobRoot     string
	Account     string
	QOS         string
	State       string
	User        string
	AllocCPUS   int64
	ElapsedSec  float64
	TotalCPUSec *float64 // nil when sacct printed nothing parseable
	MaxRSSBytes *int64
	ReqMemBytes *int64
	Submit      time.Time // zero when unknown
	Start       time.Time
	End         time.Time
}

// Rollup groups rows by parent JobID and collapses each group into one Job.
// Numeric fields take the maximum across the allocation and its steps
// (MaxRSS lives on the batch/step rows, never the allocation row); string
// fields take the first non-empty value. Output is sorted by JobRoot so
// downstream aggregation is deterministic.
func Rollup(rows []store.JobRow) []Job {
	type acc struct {
		job      Job
		totalCPU string
		submit   string
		start    string
		end      string
	}

	groups := make(map[string]*acc)
	var order []string

	setIfEmpty := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}

	for i := range rows {
		row := &rows[i]
		root, _ := domain.SplitJobID(row.JobID)

		a, ok := groups[root]
		if !ok {
			a = &acc{job: Job{JobRoot: root}}
			groups[root] = a
			order = append(order, root)
		}

		setIfEmpty(&a.job.Account, row.Account)
		setIfEmpty(&a.job.QOS, row.QOS)
		setIfEmpty(&a.job.State, row.State)
		setIfEmpty(&a.job.User, row.User)
		setIfEmpty(&a.totalCPU, row.TotalCPU)
		setIfEmpty(&a.submit, row.Submit)
		setIfEmpty(&a.start, row.Start)
		setIfEmpty(&a.end, row.End)

		if row.AllocCPUS != nil && *row.AllocCPUS > a.job.AllocCPUS {
			a.job.AllocCPUS = *row.AllocCPUS
		}
		if row.ElapsedRaw != nil && float64(*row.ElapsedRaw) > a.job.ElapsedSec {
			a.job.ElapsedSec = float64(*row.ElapsedRaw)
		}
		if b, ok := domain.ParseMemBytes(row.MaxRSS); ok {
			if a.job.MaxRSSBytes == nil || b > *a.job.MaxRSSBytes {
				v := b
				a.job.MaxRSSBytes = &v
			}
		}
		if b, ok := domain.ParseMemBytes(row.ReqMem); ok {
			if a.job.ReqMemBytes == nil || b > *a.job.ReqMemBytes {
				v := b
				a.job.ReqMemBytes = &v
			}
		}
	}

	sort.Strings(order)

	jobs := make([]Job, 0, len(order))
	for _, root := range order {
		a := groups[root]
		if sec, ok := domain.ParseDurationSeconds(a.totalCPU); ok {
			a.job.TotalCPUSec = &sec
		}
		a.job.Submit, _ = domain.ParseTime(a.submit)
		a.job.Start, _ = domain.ParseTime(a.start)
		a.job.End, _ = domain.ParseTime(a.end)
		jobs = append(jobs, a.job)
	}
	return jobs
}

// DayOverlapHours returns how many hours of the given calendar day the
// interval [start, end] covers. Jobs with an unknown start or end (pending
// or still running when sacct was queried) contribute zero.
func DayOverlapHours(start, end time.Time, day time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	sameDate := func(t time.Time) bool {
		ty, tm, td := t.Date()
		return ty == y && tm == m && td == d
	}

	switch {
	case sameDate(start) && sameDate(end):
		return end.Sub(start).Hours()
	case start.Before(dayStart) && sameDate(end):
		return end.Sub(dayStart).Hours()
	case sameDate(start) && !end.Before(dayEnd):
		return dayEnd.Sub(start).Hours()
	case start.Before(dayStart) && !end.Before(dayEnd):
		return 24
	default:
		return 0
	}
}

// Capacity is the daily denominator for the occupancy percentages.
type Capacity struct {
	CPUSeconds float64
	GBSeconds  float64
}

// DailyCapacity converts total cluster resources into one day of capacity.
func DailyCapacity(cpus int, memoryGB float64) Capacity {
	return Capacity{
		CPUSeconds: float64(cpus) * 86400,
		GBSeconds:  memoryGB * 86400,
	}
}

// Metrics holds the aggregate efficiency numbers for one group of jobs
// (global or one QOS). Wait statistics are nil when the group is empty.
type Metrics struct {
	JobCount          int      `json:"job_count"`
	CPUSeconds        float64  `json:"cpu_seconds"`
	CPUHours          float64  `json:"cpu_hours"`
	CPUUtilizationPct float64  `json:"cpu_utilization_pct"`
	GBSeconds         float64  `json:"gb_seconds"`
	MemOccupancyPct   float64  `json:"mem_occupancy_pct"`
	WaitMinSeconds    *float64 `json:"wait_min_seconds"`
	WaitMedianSeconds *float64 `json:"wait_median_seconds"`
	WaitMeanSeconds   *float64 `json:"wait_mean_seconds"`
	WaitMaxSeconds    *float64 `json:"wait_max_seconds"`
}

// Summary is the per-day JSON artifact, one per Parquet file.
type Summary struct {
	Date     string             `json:"date"`
	JobCount int                `json:"job_count"`
	Global   Metrics            `json:"global"`
	QOS      map[string]Metrics `json:"qos"`
}

// group accumulates metrics before finalisation.
type group struct {
	count      int
	cpuSeconds float64
	gbSeconds  float64
	waits      []float64
}

func (g *group) add(j *Job, wait *float64) {
	g.count++
	if j.TotalCPUSec != nil {
		g.cpuSeconds += *j.TotalCPUSec
	}
	if j.MaxRSSBytes != nil {
		g.gbSeconds += float64(*j.MaxRSSBytes) / (1 << 30) * j.ElapsedSec
	}
	if wait != nil {
		g.waits = append(g.waits, *wait)
	}
}

func (g *group) finalize(capacity Capacity) Metrics {
	m := Metrics{
		JobCount:   g.count,
		CPUSeconds: g.cpuSeconds,
		CPUHours:   g.cpuSeconds / 3600,
		GBSeconds:  g.gbSeconds,
	}
	if capacity.CPUSeconds > 0 {
		m.CPUUtilizationPct = g.cpuSeconds / capacity.CPUSeconds * 100
	}
	if capacity.GBSeconds > 0 {
		m.MemOccupancyPct = g.gbSeconds / capacity.GBSeconds * 100
	}

	if len(g.waits) > 0 {
		sort.Float64s(g.waits)
		minW := g.waits[0]
		maxW := g.waits[len(g.waits)-1]
		med := median(g.waits)
		mean := 0.0
		for _, w := range g.waits {
			mean += w
		}
		mean /= float64(len(g.waits))

		m.WaitMinSeconds = &minW
		m.WaitMaxSeconds = &maxW
		m.WaitMedianSeconds = &med
		m.WaitMeanSeconds = &mean
	}
	return m
}

// median expects a sorted slice; even lengths take the midpoint.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ComputeDaily rolls up one day of accounting rows and aggregates the
// efficiency metrics globally and per QOS. Only jobs that actually ran
// during the target day are counted. A day with zero such jobs yields a
// zero-valued summary, not an error.
func ComputeDaily(rows []store.JobRow, day time.Time, capacity Capacity) Summary {
	jobs := Rollup(rows)

	global := &group{}
	perQOS := make(map[string]*group)

	for i := range jobs {
		j := &jobs[i]
		if DayOverlapHours(j.Start, j.End, day) <= 0 {
			continue
		}

		var wait *float64
		if !j.Submit.IsZero() && !j.Start.IsZero() {
			w := j.Start.Sub(j.Submit).Seconds()
			wait = &w
		}

		global.add(j, wait)
		qos := j.QOS
		g, ok := perQOS[qos]
		if !ok {
			g = &group{}
			perQOS[qos] = g
		}
		g.add(j, wait)
	}

	summary := Summary{
		Date:     day.Format("2006-01-02"),
		JobCount: global.count,
		Global:   global.finalize(capacity),
		QOS:      make(map[string]Metrics, len(perQOS)),
	}
	for qos, g := range perQOS {
		summary.QOS[qos] = g.finalize(capacity)
	}
	return summary
}
