package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/keyprofiler/internal/keyspace"
	"github.com/dbsmedya/keyprofiler/internal/logger"
	"github.com/dbsmedya/keyprofiler/internal/metrics"
)

// RunOptions configures a full run.
type RunOptions struct {
	Scan     keyspace.ScanOptions
	Analysis Options
}

// Runner performs scan, grouping and analysis as one run.
type Runner struct {
	client   keyspace.ScanClient
	profiler Profiler
	opts     RunOptions
	logger   *logger.Logger
	metrics  *metrics.Recorder
}

// NewRunner creates a Runner. rec may be nil.
func NewRunner(client keyspace.ScanClient, p Profiler, opts RunOptions, log *logger.Logger, rec *metrics.Recorder) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{client: client, profiler: p, opts: opts, logger: log, metrics: rec}
}

// Run scans the whole keyspace, groups keys by pattern and analyzes every
// bucket in discovery order. A scan failure or cancellation discards all
// partial work and returns a zero result with the error.
func (r *Runner) Run(ctx context.Context) (AnalysisResult, error) {
	result := AnalysisResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := r.logger.WithRun(result.RunID)

	scanOpts := r.opts.Scan
	onPage := scanOpts.OnPage
	scanOpts.OnPage = func(n int) {
		r.metrics.ScanPage(n)
		if onPage != nil {
			onPage(n)
		}
	}

	log.Infow("Scanning keyspace",
		"match", scanOpts.Match,
		"count", scanOpts.Count,
		"pages_per_second", scanOpts.PagesPerSecond,
	)

	scanner := keyspace.NewScanner(r.client, scanOpts)
	grouper, err := keyspace.GroupKeys(ctx, scanner)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to scan keyspace: %w", err)
	}

	result.ScanDuration = since(result.StartedAt)
	result.ScanPages = scanner.Pages()
	result.TotalKeys = grouper.Total()
	r.metrics.Phase("scan", result.ScanDuration)
	r.metrics.Patterns(grouper.Len())

	log.Infow("Scan complete",
		"keys", grouper.Total(),
		"patterns", grouper.Len(),
		"pages", scanner.Pages(),
		"duration", result.ScanDuration,
	)

	analyzeStart := time.Now()
	an := New(r.profiler, r.opts.Analysis, log, r.metrics)
	result.Patterns = make(map[string]PatternReport, grouper.Len())
	for _, b := range grouper.Buckets() {
		log.Infow("Analyzing pattern", "pattern", b.Pattern, "keys", b.Len())

		rep, err := an.Analyze(ctx, b)
		if err != nil {
			return AnalysisResult{}, fmt.Errorf("analysis of pattern %q aborted: %w", b.Pattern, err)
		}
		result.Patterns[b.Pattern] = rep
	}

	r.metrics.Phase("analyze", since(analyzeStart))
	result.Duration = since(result.StartedAt)
	r.metrics.Phase("total", result.Duration)
	r.metrics.Succeeded(time.Now())

	log.Infow("Analysis complete",
		"patterns", len(result.Patterns),
		"keys", result.TotalKeys,
		"duration", result.Duration,
	)
	return result, nil
}
