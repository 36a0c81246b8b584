package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateAnalysis()...)
	errors = append(errors, c.validateScan()...)
	errors = append(errors, c.validatePreview()...)
	errors = append(errors, c.validateTimeouts()...)
	errors = append(errors, c.validateExport()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateStore() ValidationErrors {
	var errors ValidationErrors

	if c.Store.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "store.host",
			Message: "host is required",
		})
	}

	if c.Store.Port <= 0 || c.Store.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "store.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if c.Store.DB < 0 {
		errors = append(errors, ValidationError{
			Field:   "store.db",
			Message: "db cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateAnalysis() ValidationErrors {
	var errors ValidationErrors

	if c.Analysis.SampleSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "analysis.sample_size",
			Message: "sample_size must be positive",
		})
	}

	if c.Analysis.Workers <= 0 {
		errors = append(errors, ValidationError{
			Field:   "analysis.workers",
			Message: "workers must be positive",
		})
	}

	if c.Analysis.RetainedSamples < 0 {
		errors = append(errors, ValidationError{
			Field:   "analysis.retained_samples",
			Message: "retained_samples cannot be negative",
		})
	}

	validFormats := map[string]bool{FormatDetailed: true, FormatSummary: true}
	if !validFormats[c.Analysis.OutputFormat] {
		errors = append(errors, ValidationError{
			Field:   "analysis.output_format",
			Message: "output_format must be 'detailed' or 'summary'",
		})
	}

	return errors
}

func (c *Config) validateScan() ValidationErrors {
	var errors ValidationErrors

	if c.Scan.Count <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.count",
			Message: "count must be positive",
		})
	}

	if c.Scan.PagesPerSecond < 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.pages_per_second",
			Message: "pages_per_second cannot be negative",
		})
	}

	return errors
}

func (c *Config) validatePreview() ValidationErrors {
	var errors ValidationErrors

	if c.Preview.MaxElements <= 0 {
		errors = append(errors, ValidationError{
			Field:   "preview.max_elements",
			Message: "max_elements must be positive",
		})
	}

	if c.Preview.MaxScalarBytes <= 0 {
		errors = append(errors, ValidationError{
			Field:   "preview.max_scalar_bytes",
			Message: "max_scalar_bytes must be positive",
		})
	}

	if c.Preview.MaxText <= 0 {
		errors = append(errors, ValidationError{
			Field:   "preview.max_text",
			Message: "max_text must be positive",
		})
	}

	return errors
}

func (c *Config) validateTimeouts() ValidationErrors {
	var errors ValidationErrors

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"timeouts.dial", c.Timeouts.Dial},
		{"timeouts.scan_call", c.Timeouts.ScanCall},
		{"timeouts.profile_call", c.Timeouts.ProfileCall},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			errors = append(errors, ValidationError{
				Field:   t.field,
				Message: "timeout must be positive",
			})
		}
	}

	return errors
}

func (c *Config) validateExport() ValidationErrors {
	var errors ValidationErrors

	if c.Export.Path == "" {
		return errors
	}

	lower := strings.ToLower(c.Export.Path)
	if !strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, ".yaml") && !strings.HasSuffix(lower, ".yml") {
		errors = append(errors, ValidationError{
			Field:   "export.path",
			Message: "export file must end in .json, .yaml or .yml",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
