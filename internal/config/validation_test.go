package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Path = "report.yaml"

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{"missing host", func(cfg *Config) { cfg.Store.Host = "" }, "store.host"},
		{"port too large", func(cfg *Config) { cfg.Store.Port = 70000 }, "store.port"},
		{"negative db", func(cfg *Config) { cfg.Store.DB = -1 }, "store.db"},
		{"zero sample size", func(cfg *Config) { cfg.Analysis.SampleSize = 0 }, "analysis.sample_size"},
		{"zero workers", func(cfg *Config) { cfg.Analysis.Workers = 0 }, "analysis.workers"},
		{"bad output format", func(cfg *Config) { cfg.Analysis.OutputFormat = "verbose" }, "analysis.output_format"},
		{"zero scan count", func(cfg *Config) { cfg.Scan.Count = 0 }, "scan.count"},
		{"negative pacing", func(cfg *Config) { cfg.Scan.PagesPerSecond = -1 }, "scan.pages_per_second"},
		{"zero preview elements", func(cfg *Config) { cfg.Preview.MaxElements = 0 }, "preview.max_elements"},
		{"zero profile timeout", func(cfg *Config) { cfg.Timeouts.ProfileCall = 0 }, "timeouts.profile_call"},
		{"bad export extension", func(cfg *Config) { cfg.Export.Path = "out.csv" }, "export.path"},
		{"bad log level", func(cfg *Config) { cfg.Logging.Level = "trace" }, "logging.level"},
		{"bad log format", func(cfg *Config) { cfg.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.field)
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "store.host", Message: "host is required"},
		{Field: "store.port", Message: "port must be between 1 and 65535"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "validation failed") {
		t.Errorf("expected 'validation failed' prefix, got: %s", msg)
	}
	if !strings.Contains(msg, "store.host: host is required") {
		t.Errorf("expected host error in message, got: %s", msg)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("expected empty message for no errors")
	}
}
