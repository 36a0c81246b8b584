package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/keyprofiler/internal/config"
	"github.com/dbsmedya/keyprofiler/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and store connectivity",
	Long: `Validate checks the configuration and the connection to the store
without scanning any keys.

Checks performed:
  - Configuration syntax and value ranges
  - Store connectivity (PING)
  - Optional capabilities (MEMORY USAGE, search module)

Example:
  keyprofiler validate --config keyprofiler.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer log.Sync()

	return validate(ctx, cfg, log, cmd.OutOrStdout())
}

func validate(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer) error {
	configFile := GetConfigFile()
	if configFile == "" {
		configFile = "(none, defaults and flags)"
	}

	fmt.Fprintf(out, "\n=== Configuration Validation ===\n")
	fmt.Fprintf(out, "Config file: %s\n", configFile)
	fmt.Fprintf(out, "Store: %s (db %d)\n", cfg.Store.Addr(), cfg.Store.DB)
	fmt.Fprintf(out, "Sample size: %d, workers: %d, format: %s\n\n",
		cfg.Analysis.SampleSize, cfg.Analysis.Workers, cfg.Analysis.OutputFormat)
	fmt.Fprintln(out, "✅ Configuration is valid")

	mgr, err := connect(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(out, "❌ Store unreachable: %v\n", err)
		return err
	}
	defer mgr.Close()
	fmt.Fprintln(out, "✅ Store reachable")

	for _, c := range probeCapabilities(ctx, mgr.Client) {
		if c.Err != nil {
			fmt.Fprintf(out, "⚠️  %s unavailable: %v\n", c.Name, c.Err)
			continue
		}
		fmt.Fprintf(out, "✅ %s available\n", c.Name)
	}

	fmt.Fprintln(out, "\n=== Validation Complete ===")
	return nil
}
