package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test store defaults
	if cfg.Store.Host != "localhost" {
		t.Errorf("expected store host 'localhost', got %s", cfg.Store.Host)
	}
	if cfg.Store.Port != 6379 {
		t.Errorf("expected store port 6379, got %d", cfg.Store.Port)
	}
	if cfg.Store.DB != 0 {
		t.Errorf("expected store db 0, got %d", cfg.Store.DB)
	}

	// Test analysis defaults
	if cfg.Analysis.SampleSize != 10 {
		t.Errorf("expected sample_size 10, got %d", cfg.Analysis.SampleSize)
	}
	if cfg.Analysis.OutputFormat != FormatDetailed {
		t.Errorf("expected output_format 'detailed', got %s", cfg.Analysis.OutputFormat)
	}
	if cfg.Analysis.RetainedSamples != 3 {
		t.Errorf("expected retained_samples 3, got %d", cfg.Analysis.RetainedSamples)
	}
	if !cfg.Analysis.IncludeSearch {
		t.Errorf("expected include_search enabled by default")
	}

	// Test scan defaults
	if cfg.Scan.Count != 1000 {
		t.Errorf("expected scan count 1000, got %d", cfg.Scan.Count)
	}
	if cfg.Scan.Match != "*" {
		t.Errorf("expected scan match '*', got %s", cfg.Scan.Match)
	}

	// Test timeout defaults
	if cfg.Timeouts.ProfileCall != 5*time.Second {
		t.Errorf("expected profile_call 5s, got %s", cfg.Timeouts.ProfileCall)
	}

	// Test logging defaults
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected logging output 'stderr', got %s", cfg.Logging.Output)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestStoreAddr(t *testing.T) {
	s := StoreConfig{Host: "cache.internal", Port: 6380}
	if got := s.Addr(); got != "cache.internal:6380" {
		t.Errorf("expected 'cache.internal:6380', got %s", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	db := 0
	tests := []struct {
		name  string
		start func() *Config
		o     Overrides
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "empty overrides keep values",
			start: DefaultConfig,
			o:     Overrides{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Store.Host != "localhost" || cfg.Analysis.SampleSize != 10 {
					t.Errorf("empty overrides changed config: %+v", cfg)
				}
			},
		},
		{
			name:  "connection overrides",
			start: DefaultConfig,
			o:     Overrides{Host: "redis-1", Port: 7000, Password: "secret"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Store.Host != "redis-1" || cfg.Store.Port != 7000 || cfg.Store.Password != "secret" {
					t.Errorf("connection overrides not applied: %+v", cfg.Store)
				}
			},
		},
		{
			name: "explicit db zero wins over file value",
			start: func() *Config {
				cfg := DefaultConfig()
				cfg.Store.DB = 5
				return cfg
			},
			o: Overrides{DB: &db},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Store.DB != 0 {
					t.Errorf("expected db 0, got %d", cfg.Store.DB)
				}
			},
		},
		{
			name:  "analysis overrides",
			start: DefaultConfig,
			o:     Overrides{SampleSize: 25, Workers: 8, OutputFormat: FormatSummary, NoSearch: true},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Analysis.SampleSize != 25 || cfg.Analysis.Workers != 8 {
					t.Errorf("analysis overrides not applied: %+v", cfg.Analysis)
				}
				if cfg.Analysis.OutputFormat != FormatSummary {
					t.Errorf("expected summary format, got %s", cfg.Analysis.OutputFormat)
				}
				if cfg.Analysis.IncludeSearch {
					t.Errorf("expected include_search disabled")
				}
			},
		},
		{
			name:  "output overrides",
			start: DefaultConfig,
			o:     Overrides{ExportPath: "out.json", MetricsTextfile: "run.prom", LogLevel: "debug", LogFormat: "json", Match: "card:*"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Export.Path != "out.json" || cfg.Metrics.Textfile != "run.prom" {
					t.Errorf("output overrides not applied")
				}
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("logging overrides not applied: %+v", cfg.Logging)
				}
				if cfg.Scan.Match != "card:*" {
					t.Errorf("expected match 'card:*', got %s", cfg.Scan.Match)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.start()
			cfg.ApplyOverrides(tt.o)
			tt.check(t, cfg)
		})
	}
}
