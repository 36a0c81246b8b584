package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/keyprofiler/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile         string
	host            string
	port            int
	db              int
	password        string
	sampleSize      int
	workers         int
	outputFormat    string
	match           string
	exportPath      string
	metricsTextfile string
	logLevel        string
	logFormat       string
	noColor         bool
	noSearch        bool
)

var rootCmd = &cobra.Command{
	Use:   "keyprofiler",
	Short: "Key pattern analyzer for Redis-compatible stores",
	Long: `Scans the whole keyspace of a running Redis-compatible store, generalizes
keys into structural patterns and profiles a sample of every pattern.

Features:
  - Cursor-based SCAN, never KEYS
  - Pattern inference for UUIDs, SKU ids, set codes and generic ids
  - Per-pattern shape, memory and TTL statistics
  - Bounded previews of every value shape
  - Full-text search index listing
  - JSON/YAML export and Prometheus textfile metrics

Running keyprofiler without a subcommand is the same as "keyprofiler analyze".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here because runAnalyze reads rootCmd's flags.
	rootCmd.RunE = runAnalyze

	flags := rootCmd.PersistentFlags()

	// Config file flag
	flags.StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Connection overrides
	flags.StringVar(&host, "host", "", "Store host (default localhost)")
	flags.IntVar(&port, "port", 0, "Store port (default 6379)")
	flags.IntVar(&db, "db", 0, "Logical database number")
	flags.StringVar(&password, "password", "", "Store password")

	// Analysis overrides
	flags.IntVar(&sampleSize, "sample-size", 0, "Keys profiled per pattern (default 10)")
	flags.IntVar(&workers, "workers", 0, "Concurrent profile calls per pattern (default 4)")
	flags.StringVar(&outputFormat, "format", "", "Report format (detailed, summary)")
	flags.StringVar(&match, "match", "", "SCAN MATCH filter (default *)")
	flags.BoolVar(&noSearch, "no-search", false, "Skip the search index section")

	// Output overrides
	flags.StringVar(&exportPath, "export", "", "Write the analysis to a .json, .yaml or .yml file")
	flags.StringVar(&metricsTextfile, "metrics-textfile", "", "Write run metrics to a node-exporter textfile")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured output")

	// Logging overrides
	flags.StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	o := config.Overrides{
		Host:            host,
		Port:            port,
		Password:        password,
		SampleSize:      sampleSize,
		Workers:         workers,
		OutputFormat:    outputFormat,
		Match:           match,
		ExportPath:      exportPath,
		MetricsTextfile: metricsTextfile,
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		NoSearch:        noSearch,
	}
	// db 0 is a valid choice, so only an explicit flag overrides the file.
	if f := rootCmd.PersistentFlags().Lookup("db"); f != nil && f.Changed {
		v := db
		o.DB = &v
	}
	return o
}

// loadConfig reads the config file, layers the flags over it and validates
// the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
