package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/keyprofiler/internal/analyzer"
	"github.com/dbsmedya/keyprofiler/internal/config"
	"github.com/dbsmedya/keyprofiler/internal/keyspace"
	"github.com/dbsmedya/keyprofiler/internal/logger"
	"github.com/dbsmedya/keyprofiler/internal/metrics"
	"github.com/dbsmedya/keyprofiler/internal/profiler"
	"github.com/dbsmedya/keyprofiler/internal/report"
	"github.com/dbsmedya/keyprofiler/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Scan the keyspace and report key patterns",
	Long: `Analyze scans every key with SCAN, groups keys into patterns and
profiles the first keys of each pattern.

The report shows:
  - Summary (total keys, unique patterns, sampled memory)
  - Patterns sorted by key count
  - Value shapes, memory and TTL per pattern
  - Sample keys and bounded value previews
  - Search indexes (detailed format, unless --no-search)

Example:
  keyprofiler analyze --host cache.internal --sample-size 20 --export report.json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer log.Sync()

	return analyze(ctx, cfg, log, cmd.OutOrStdout())
}

// analyze runs one complete analysis and writes the report to out. Nothing
// is written when the run fails or is cancelled.
func analyze(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer) error {
	mgr, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer mgr.Close()

	rec := metrics.New()
	prof := profiler.New(mgr.Client, profiler.Options{
		MaxElements:    cfg.Preview.MaxElements,
		MaxScalarBytes: cfg.Preview.MaxScalarBytes,
		MaxText:        cfg.Preview.MaxText,
		Timeout:        cfg.Timeouts.ProfileCall,
	}, log)

	runner := analyzer.NewRunner(mgr.Client, prof, analyzer.RunOptions{
		Scan: keyspace.ScanOptions{
			Match:          cfg.Scan.Match,
			Count:          cfg.Scan.Count,
			CallTimeout:    cfg.Timeouts.ScanCall,
			PagesPerSecond: cfg.Scan.PagesPerSecond,
		},
		Analysis: analyzer.Options{
			SampleSize:      cfg.Analysis.SampleSize,
			Workers:         cfg.Analysis.Workers,
			RetainedSamples: cfg.Analysis.RetainedSamples,
		},
	}, log, rec)

	res, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Analysis cancelled - no report produced")
			return fmt.Errorf("analysis cancelled: %w", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	f := report.New(out, report.Options{Color: colorEnabled()})
	if err := f.Write(res, cfg.Analysis.OutputFormat); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	var indexes []store.SearchIndex
	if cfg.Analysis.IncludeSearch {
		indexes = searchIndexes(ctx, mgr.Client, cfg, log, f)
	}

	if cfg.Export.Path != "" {
		if err := report.Export(cfg.Export.Path, res, indexes); err != nil {
			return err
		}
		log.Infow("Analysis exported", "path", cfg.Export.Path)
	}

	if cfg.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
		log.Infow("Metrics written", "path", cfg.Metrics.Textfile)
	}

	return nil
}

// searchIndexes lists the full-text indexes and, in the detailed format,
// writes the index section. A failed listing is shown as a notice and
// never fails the run.
func searchIndexes(ctx context.Context, c store.Commander, cfg *config.Config, log *logger.Logger, f *report.Formatter) []store.SearchIndex {
	indexes, err := store.ListSearchIndexes(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrCapabilityUnavailable):
		log.Debugw("Search module not available", "error", err)
	default:
		log.Warnw("Failed to list search indexes", "error", err)
	}

	if cfg.Analysis.OutputFormat == config.FormatDetailed {
		f.Indexes(indexes, err)
	}
	return indexes
}
