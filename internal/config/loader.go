package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
// An empty path yields the defaults, so the tool runs without a file.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		cfg := DefaultConfig()
		if err := substituteEnvVars(cfg); err != nil {
			return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.Store.Host = expandEnvVar(cfg.Store.Host)
	cfg.Store.Username = expandEnvVar(cfg.Store.Username)
	cfg.Store.Password = expandEnvVar(cfg.Store.Password)

	cfg.Export.Path = expandEnvVar(cfg.Export.Path)
	cfg.Metrics.Textfile = expandEnvVar(cfg.Metrics.Textfile)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides contains CLI flag values layered over the file configuration.
// Zero values mean "not set"; pointer fields distinguish an explicit zero.
type Overrides struct {
	Host            string
	Port            int
	DB              *int
	Password        string
	SampleSize      int
	Workers         int
	OutputFormat    string
	Match           string
	ExportPath      string
	MetricsTextfile string
	LogLevel        string
	LogFormat       string
	NoSearch        bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Host != "" {
		c.Store.Host = o.Host
	}
	if o.Port > 0 {
		c.Store.Port = o.Port
	}
	if o.DB != nil {
		c.Store.DB = *o.DB
	}
	if o.Password != "" {
		c.Store.Password = o.Password
	}
	if o.SampleSize > 0 {
		c.Analysis.SampleSize = o.SampleSize
	}
	if o.Workers > 0 {
		c.Analysis.Workers = o.Workers
	}
	if o.OutputFormat != "" {
		c.Analysis.OutputFormat = o.OutputFormat
	}
	if o.Match != "" {
		c.Scan.Match = o.Match
	}
	if o.ExportPath != "" {
		c.Export.Path = o.ExportPath
	}
	if o.MetricsTextfile != "" {
		c.Metrics.Textfile = o.MetricsTextfile
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.NoSearch {
		c.Analysis.IncludeSearch = false
	}
}
