// Package config provides configuration structures and loading for keyprofiler.
package config

import (
	"fmt"
	"time"
)

// Output formats for the pattern report.
const (
	FormatDetailed = "detailed"
	FormatSummary  = "summary"
)

// Config represents the complete application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Scan     ScanConfig     `yaml:"scan" mapstructure:"scan"`
	Preview  PreviewConfig  `yaml:"preview" mapstructure:"preview"`
	Timeouts TimeoutConfig  `yaml:"timeouts" mapstructure:"timeouts"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Metrics  MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// StoreConfig represents the connection to the store under analysis.
type StoreConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// Addr returns host:port.
func (s StoreConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AnalysisConfig controls sampling and report shape.
type AnalysisConfig struct {
	SampleSize      int    `yaml:"sample_size" mapstructure:"sample_size"`           // keys profiled per pattern
	Workers         int    `yaml:"workers" mapstructure:"workers"`                   // concurrent profile calls per pattern
	RetainedSamples int    `yaml:"retained_samples" mapstructure:"retained_samples"` // sample records kept verbatim
	OutputFormat    string `yaml:"output_format" mapstructure:"output_format"`       // detailed or summary
	IncludeSearch   bool   `yaml:"include_search" mapstructure:"include_search"`     // append full-text index section
}

// ScanConfig controls keyspace iteration.
type ScanConfig struct {
	Count          int64   `yaml:"count" mapstructure:"count"` // SCAN COUNT hint
	Match          string  `yaml:"match" mapstructure:"match"`
	PagesPerSecond float64 `yaml:"pages_per_second" mapstructure:"pages_per_second"` // 0 = unlimited
}

// PreviewConfig bounds the work done per sampled key.
type PreviewConfig struct {
	MaxElements    int   `yaml:"max_elements" mapstructure:"max_elements"`
	MaxScalarBytes int64 `yaml:"max_scalar_bytes" mapstructure:"max_scalar_bytes"`
	MaxText        int   `yaml:"max_text" mapstructure:"max_text"`
}

// TimeoutConfig holds per-call deadlines.
type TimeoutConfig struct {
	Dial        time.Duration `yaml:"dial" mapstructure:"dial"`
	ScanCall    time.Duration `yaml:"scan_call" mapstructure:"scan_call"`
	ProfileCall time.Duration `yaml:"profile_call" mapstructure:"profile_call"`
}

// ExportConfig represents the optional structured export of the analysis.
type ExportConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // .json, .yaml or .yml
}

// MetricsConfig represents run metrics output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"` // node-exporter textfile path
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Host: "localhost",
			Port: 6379,
			DB:   0,
		},
		Analysis: AnalysisConfig{
			SampleSize:      10,
			Workers:         4,
			RetainedSamples: 3,
			OutputFormat:    FormatDetailed,
			IncludeSearch:   true,
		},
		Scan: ScanConfig{
			Count: 1000,
			Match: "*",
		},
		Preview: PreviewConfig{
			MaxElements:    3,
			MaxScalarBytes: 64 * 1024,
			MaxText:        200,
		},
		Timeouts: TimeoutConfig{
			Dial:        5 * time.Second,
			ScanCall:    10 * time.Second,
			ProfileCall: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
