package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
store:
  host: redis.local
  port: 6380
  db: 2
  password: testpass

analysis:
  sample_size: 25
  workers: 2
  output_format: summary

scan:
  count: 500
  match: "card:*"
  pages_per_second: 20

timeouts:
  profile_call: 2s

export:
  path: analysis.json

logging:
  level: debug
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify store config
	if cfg.Store.Host != "redis.local" {
		t.Errorf("expected store host 'redis.local', got %s", cfg.Store.Host)
	}
	if cfg.Store.Port != 6380 {
		t.Errorf("expected store port 6380, got %d", cfg.Store.Port)
	}
	if cfg.Store.DB != 2 {
		t.Errorf("expected store db 2, got %d", cfg.Store.DB)
	}

	// Verify analysis config
	if cfg.Analysis.SampleSize != 25 {
		t.Errorf("expected sample_size 25, got %d", cfg.Analysis.SampleSize)
	}
	if cfg.Analysis.OutputFormat != FormatSummary {
		t.Errorf("expected output_format 'summary', got %s", cfg.Analysis.OutputFormat)
	}
	// Unset values keep their defaults
	if cfg.Analysis.RetainedSamples != 3 {
		t.Errorf("expected default retained_samples 3, got %d", cfg.Analysis.RetainedSamples)
	}

	// Verify scan config
	if cfg.Scan.Count != 500 {
		t.Errorf("expected scan count 500, got %d", cfg.Scan.Count)
	}
	if cfg.Scan.PagesPerSecond != 20 {
		t.Errorf("expected pages_per_second 20, got %v", cfg.Scan.PagesPerSecond)
	}

	// Verify durations decode
	if cfg.Timeouts.ProfileCall != 2*time.Second {
		t.Errorf("expected profile_call 2s, got %s", cfg.Timeouts.ProfileCall)
	}
	if cfg.Timeouts.ScanCall != 10*time.Second {
		t.Errorf("expected default scan_call 10s, got %s", cfg.Timeouts.ScanCall)
	}

	if cfg.Export.Path != "analysis.json" {
		t.Errorf("expected export path 'analysis.json', got %s", cfg.Export.Path)
	}

	// Verify logging config
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Store.Port != 6379 {
		t.Errorf("expected default port 6379, got %d", cfg.Store.Port)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "env-host")
	t.Setenv("TEST_REDIS_PASS", "env-pass")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
store:
  host: ${TEST_REDIS_HOST}
  port: 6379
  password: $TEST_REDIS_PASS
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.Host != "env-host" {
		t.Errorf("expected host 'env-host', got %s", cfg.Store.Host)
	}
	if cfg.Store.Password != "env-pass" {
		t.Errorf("expected password 'env-pass', got %s", cfg.Store.Password)
	}
}

func TestExpandEnvVarMissingKeepsOriginal(t *testing.T) {
	got := expandEnvVar("${KEYPROFILER_DEFINITELY_UNSET_VAR}")
	if got != "${KEYPROFILER_DEFINITELY_UNSET_VAR}" {
		t.Errorf("expected unexpanded value, got %s", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("store.host", "viper-host")
	v.Set("analysis.sample_size", 3)

	cfg, err := LoadFromViper(v)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.Host != "viper-host" {
		t.Errorf("expected host 'viper-host', got %s", cfg.Store.Host)
	}
	if cfg.Analysis.SampleSize != 3 {
		t.Errorf("expected sample_size 3, got %d", cfg.Analysis.SampleSize)
	}
	if cfg.Store.Port != 6379 {
		t.Errorf("expected default port 6379, got %d", cfg.Store.Port)
	}
}
