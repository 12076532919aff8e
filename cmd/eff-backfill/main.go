// One-shot tool: regenerate daily summaries and reports for days that have
// a Parquet file but no JSON summary yet.
//
// Usage:
//
//	go run cmd/eff-backfill/main.go
package main

import (
	"log"
	"os"
	"path/filepath"

	"slurmeff/internal/config"
	"slurmeff/internal/report"
	"slurmeff/internal/store"
	"slurmeff/internal/util"
)

func main() {
	cfgPath := "config/slurmeff.yaml"
	if p := os.Getenv("SLURMEFF_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ps := store.NewParquetStore(cfg.Storage.DatabaseDir)
	gen := &report.Generator{
		Store:    ps,
		Capacity: report.DailyCapacity(cfg.Capacity.CPUs, cfg.Capacity.MemoryGB),
		Logger:   logger,
	}

	days, err := ps.ListDays()
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	wrote := 0
	for _, date := range days {
		if _, err := os.Stat(ps.SummaryPath(date)); err == nil {
			continue
		}
		htmlPath := filepath.Join(cfg.Storage.ReportDir, date+".html")
		if _, err := gen.Generate(date, htmlPath); err != nil {
			log.Fatalf("backfill %s: %v", date, err)
		}
		wrote++
	}

	if wrote == 0 {
		logger.Info("no summaries to backfill (all up to date)")
	} else {
		logger.Info("summary backfill complete", "wrote", wrote)
	}
}
