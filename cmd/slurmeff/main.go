// slurmeff pulls Slurm accounting data into per-day Parquet files and turns
// them into daily efficiency reports and a calendar overview.
//
// Usage:
//
//	slurmeff <command> [options]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slurmeff/internal/calendar"
	"slurmeff/internal/config"
	"slurmeff/internal/pipeline"
	"slurmeff/internal/sacct"
	"slurmeff/internal/store"
	"slurmeff/internal/util"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: slurmeff <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  extract    Pull one day of accounting data into the spool\n")
	fmt.Fprintf(os.Stderr, "  convert    Convert a staged dump into a Parquet file\n")
	fmt.Fprintf(os.Stderr, "  report     Generate the JSON summary and HTML report for a day\n")
	fmt.Fprintf(os.Stderr, "  calendar   Render the calendar overview across days\n")
	fmt.Fprintf(os.Stderr, "  daily      Run extract, convert, and report for one day\n")
	fmt.Fprintf(os.Stderr, "  run        Run the daily pipeline on the configured schedule\n")
	fmt.Fprintf(os.Stderr, "  version    Print the version\n")
	fmt.Fprintf(os.Stderr, "\n")
}

func loadConfig() *config.Config {
	cfgPath := "config/slurmeff.yaml"
	if p := os.Getenv("SLURMEFF_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	return p
}

func main() {
	flag.Usage = usage

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("slurmeff %s\n", version)

	case "extract":
		cmdExtract(os.Args[2:])

	case "convert":
		cmdConvert(os.Args[2:])

	case "report":
		cmdReport(os.Args[2:])

	case "calendar":
		cmdCalendar(os.Args[2:])

	case "daily":
		cmdDaily(os.Args[2:])

	case "run":
		cmdRun(os.Args[2:])

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

// yesterday is the default target: accounting data for a day is complete
// once the day is over.
func yesterday() string {
	return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	date := fs.String("date", yesterday(), "target day (YYYY-MM-DD)")
	output := fs.String("output", "", "staging file path (default: <spool_dir>/<date>.csv)")
	fs.Parse(args)

	cfg := loadConfig()
	p := newPipeline(cfg)
	defer p.Close()

	day, err := time.ParseInLocation("2006-01-02", *date, time.Local)
	if err != nil {
		log.Fatalf("invalid date %q: %v", *date, err)
	}
	out := *output
	if out == "" {
		out = p.StagingPath(*date)
	}

	if err := p.Extractor().Extract(context.Background(), day, out); err != nil {
		log.Printf("error: %v", err)
		os.Exit(sacct.ExitCode(err))
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	input := fs.String("input", "", "staged accounting dump (required)")
	output := fs.String("output", "", "Parquet file to write (required)")
	fs.Parse(args)

	if *input == "" || *output == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	stats, err := store.ConvertFile(*input, *output, cfg.Sacct.Separator, cfg.Sacct.Columns)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	logger.Info("conversion complete", "rows", stats.Rows, "dropped", stats.Dropped, "output", *output)
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	date := fs.String("date", yesterday(), "target day (YYYY-MM-DD)")
	database := fs.String("database", "", "Parquet database directory (default: storage.database_dir)")
	output := fs.String("output", "", "HTML report path (default: <report_dir>/<date>.html)")
	fs.Parse(args)

	cfg := loadConfig()
	if *database != "" {
		cfg.Storage.DatabaseDir = *database
	}
	p := newPipeline(cfg)
	defer p.Close()

	out := *output
	if out == "" {
		out = p.ReportPath(*date)
	}

	if _, err := p.Generator().Generate(*date, out); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func cmdCalendar(args []string) {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	database := fs.String("database", "", "Parquet database directory (default: storage.database_dir)")
	from := fs.String("from", "", "first day (default: first day with a summary)")
	to := fs.String("to", "", "last day (default: last day with a summary)")
	output := fs.String("output", "calendar.html", "calendar HTML path")
	fs.Parse(args)

	cfg := loadConfig()
	if *database != "" {
		cfg.Storage.DatabaseDir = *database
	}
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	b := &calendar.Builder{
		Store:  store.NewParquetStore(cfg.Storage.DatabaseDir),
		Logger: logger,
	}
	if err := b.Build(*from, *to, *output); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func cmdDaily(args []string) {
	fs := flag.NewFlagSet("daily", flag.ExitOnError)
	date := fs.String("date", yesterday(), "target day (YYYY-MM-DD)")
	fs.Parse(args)

	cfg := loadConfig()
	p := newPipeline(cfg)
	defer p.Close()

	if err := p.RunDay(context.Background(), *date); err != nil {
		log.Printf("error: %v", err)
		os.Exit(sacct.ExitCode(err))
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Parse(args)

	cfg := loadConfig()
	p := newPipeline(cfg)
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.RunDaemon(ctx); err != nil && err != context.Canceled {
		log.Fatalf("error: %v", err)
	}
}
