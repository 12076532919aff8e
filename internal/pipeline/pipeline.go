// Package pipeline chains the three daily stages (extract, convert, report)
// for one target day and drives them from the built-in cron scheduler.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"slurmeff/internal/config"
	"slurmeff/internal/report"
	"slurmeff/internal/sacct"
	"slurmeff/internal/store"
)

// Pipeline owns the wiring between the stages: one extractor, one Parquet
// store, one report generator, and an optional run ledger.
type Pipeline struct {
	cfg       *config.Config
	store     *store.ParquetStore
	extractor *sacct.Extractor
	generator *report.Generator
	ledger    store.RunLedger // nil when no ledger_path is configured
	logger    *slog.Logger
}

// New builds a Pipeline from configuration. The accounting command runs over
// SSH when sacct.remote.host is set, locally otherwise.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	var runner sacct.Runner = sacct.LocalRunner{}
	if cfg.Sacct.Remote.Host != "" {
		runner = &sacct.SSHRunner{
			Host:     cfg.Sacct.Remote.Host,
			Port:     cfg.Sacct.Remote.Port,
			User:     cfg.Sacct.Remote.User,
			KeyPath:  cfg.Sacct.Remote.KeyPath,
			Password: cfg.Sacct.Remote.Password,
		}
	}

	ps := store.NewParquetStore(cfg.Storage.DatabaseDir)

	var ledger store.RunLedger
	if cfg.Storage.LedgerPath != "" {
		l, err := store.NewSQLiteLedger(cfg.Storage.LedgerPath)
		if err != nil {
			return nil, fmt.Errorf("opening run ledger: %w", err)
		}
		ledger = l
	}

	return &Pipeline{
		cfg:   cfg,
		store: ps,
		extractor: &sacct.Extractor{
			Runner: runner,
			Binary: cfg.Sacct.Binary,
			Logger: logger,
		},
		generator: &report.Generator{
			Store:    ps,
			Capacity: report.DailyCapacity(cfg.Capacity.CPUs, cfg.Capacity.MemoryGB),
			Logger:   logger,
		},
		ledger: ledger,
		logger: logger,
	}, nil
}

// Close releases the run ledger.
func (p *Pipeline) Close() error {
	if p.ledger == nil {
		return nil
	}
	return p.ledger.Close()
}

// Store exposes the Parquet store, for callers that need paths or listings.
func (p *Pipeline) Store() *store.ParquetStore { return p.store }

// Generator exposes the report generator for single-stage invocations.
func (p *Pipeline) Generator() *report.Generator { return p.generator }

// Extractor exposes the extractor for single-stage invocations.
func (p *Pipeline) Extractor() *sacct.Extractor { return p.extractor }

// StagingPath is where the raw dump for a date waits between extraction and
// conversion.
func (p *Pipeline) StagingPath(date string) string {
	return filepath.Join(p.cfg.Storage.SpoolDir, date+".csv")
}

// ReportPath is where the rendered HTML report for a date lands.
func (p *Pipeline) ReportPath(date string) string {
	return filepath.Join(p.cfg.Storage.ReportDir, date+".html")
}

// RunDay executes extract, convert, and report for one date, stopping at the
// first failing stage. Every stage attempt is recorded in the ledger.
func (p *Pipeline) RunDay(ctx context.Context, date string) error {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	staging := p.StagingPath(date)

	err = p.timed(ctx, date, "extract", func() (int, error) {
		return 0, p.extractor.Extract(ctx, day, staging)
	})
	if err != nil {
		return fmt.Errorf("extract %s: %w", date, err)
	}

	err = p.timed(ctx, date, "convert", func() (int, error) {
		stats, cerr := store.ConvertFile(staging, p.store.DayPath(date), p.cfg.Sacct.Separator, p.cfg.Sacct.Columns)
		if cerr == nil && stats.Dropped > 0 {
			p.logger.Warn("dropped malformed accounting lines", "date", date, "dropped", stats.Dropped)
		}
		return stats.Rows, cerr
	})
	if err != nil {
		return fmt.Errorf("convert %s: %w", date, err)
	}

	err = p.timed(ctx, date, "report", func() (int, error) {
		summary, gerr := p.generator.Generate(date, p.ReportPath(date))
		return summary.JobCount, gerr
	})
	if err != nil {
		return fmt.Errorf("report %s: %w", date, err)
	}

	p.logger.Info("daily pipeline complete", "date", date)
	return nil
}

// timed runs one stage, logs it, and appends the outcome to the ledger.
func (p *Pipeline) timed(ctx context.Context, date, stage string, fn func() (int, error)) error {
	started := time.Now()
	rows, err := fn()
	finished := time.Now()

	run := store.Run{
		Date:       date,
		Stage:      stage,
		Rows:       rows,
		Status:     "ok",
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	}

	if p.ledger != nil {
		if lerr := p.ledger.RecordRun(ctx, run); lerr != nil {
			p.logger.Error("recording run failed", "date", date, "stage", stage, "error", lerr)
		}
	}
	return err
}

// RunDaemon blocks, running the full pipeline for the previous day on the
// configured cron schedule, until ctx is cancelled.
func (p *Pipeline) RunDaemon(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(p.cfg.Schedule.Cron, func() {
		date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		p.logger.Info("scheduled run starting", "date", date)
		if rerr := p.RunDay(ctx, date); rerr != nil {
			p.logger.Error("scheduled run failed", "date", date, "error", rerr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.cfg.Schedule.Cron, err)
	}

	p.logger.Info("scheduler started", "cron", p.cfg.Schedule.Cron)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
