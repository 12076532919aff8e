package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for slurmeff.
type Config struct {
	Storage  Storage  `yaml:"storage"`
	Sacct    Sacct    `yaml:"sacct"`
	Capacity Capacity `yaml:"capacity"`
	Schedule Schedule `yaml:"schedule"`
	Logging  Logging  `yaml:"logging"`
}

// Storage holds the directories the pipeline reads and writes.
type Storage struct {
	// DatabaseDir holds one <YYYY-MM-DD>.parquet and one <YYYY-MM-DD>.json
	// per day.
	DatabaseDir string `yaml:"database_dir"`
	// SpoolDir holds the raw sacct dump between extraction and conversion.
	SpoolDir string `yaml:"spool_dir"`
	// ReportDir holds the rendered per-day HTML reports.
	ReportDir string `yaml:"report_dir"`
	// LedgerPath is the SQLite file recording pipeline runs.
	LedgerPath string `yaml:"ledger_path"`
}

// Sacct configures how the accounting command is invoked.
type Sacct struct {
	Binary    string `yaml:"binary"`
	Columns   int    `yaml:"columns"`
	Separator string `yaml:"separator"`
	Remote    Remote `yaml:"remote"`
}

// Remote, when Host is set, makes the extractor run sacct over SSH on the
// cluster head node instead of locally.
type Remote struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	KeyPath  string `yaml:"key_path"`
	Password string `yaml:"password"`
}

// Capacity describes the total cluster resources that occupancy percentages
// are computed against.
type Capacity struct {
	CPUs     int     `yaml:"cpus"`
	MemoryGB float64 `yaml:"memory_gb"`
}

// Schedule configures the built-in daily trigger for `slurmeff run`.
type Schedule struct {
	Cron string `yaml:"cron"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, fills in defaults, and then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyDefaults fills fields the YAML left empty.
func applyDefaults(cfg *Config) {
	if cfg.Sacct.Binary == "" {
		cfg.Sacct.Binary = "sacct"
	}
	if cfg.Sacct.Columns == 0 {
		cfg.Sacct.Columns = 109
	}
	if cfg.Sacct.Separator == "" {
		cfg.Sacct.Separator = "|"
	}
	if cfg.Sacct.Remote.Port == 0 {
		cfg.Sacct.Remote.Port = 22
	}
	if cfg.Capacity.CPUs == 0 {
		cfg.Capacity.CPUs = 424
	}
	if cfg.Capacity.MemoryGB == 0 {
		cfg.Capacity.MemoryGB = 2183
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "15 0 * * *"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLURMEFF_DATABASE_DIR"); v != "" {
		cfg.Storage.DatabaseDir = v
	}
	if v := os.Getenv("SLURMEFF_SPOOL_DIR"); v != "" {
		cfg.Storage.SpoolDir = v
	}
	if v := os.Getenv("SLURMEFF_REPORT_DIR"); v != "" {
		cfg.Storage.ReportDir = v
	}
	if v := os.Getenv("SLURMEFF_LEDGER_PATH"); v != "" {
		cfg.Storage.LedgerPath = v
	}
	if v := os.Getenv("SLURMEFF_SACCT_BIN"); v != "" {
		cfg.Sacct.Binary = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
