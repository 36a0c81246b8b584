// Package analyzer samples pattern buckets through the profiler and
// aggregates the samples into per-pattern reports.
package analyzer

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/keyprofiler/internal/keyspace"
	"github.com/dbsmedya/keyprofiler/internal/logger"
	"github.com/dbsmedya/keyprofiler/internal/metrics"
	"github.com/dbsmedya/keyprofiler/internal/profiler"
)

// sampleKeyLimit is how many sampled key names a report lists.
const sampleKeyLimit = 5

// Profiler snapshots one key; *profiler.Profiler implements it.
type Profiler interface {
	Profile(ctx context.Context, key string) (profiler.SampleRecord, error)
}

// Options controls sampling.
type Options struct {
	SampleSize      int // keys profiled per bucket
	Workers         int // concurrent profile calls
	RetainedSamples int // records kept verbatim in the report
}

// DefaultOptions returns the sampling defaults.
func DefaultOptions() Options {
	return Options{SampleSize: 10, Workers: 4, RetainedSamples: 3}
}

// Analyzer builds PatternReports. It is stateless between calls.
type Analyzer struct {
	profiler Profiler
	opts     Options
	logger   *logger.Logger
	metrics  *metrics.Recorder
}

// New creates an Analyzer. rec may be nil.
func New(p Profiler, opts Options, log *logger.Logger, rec *metrics.Recorder) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SampleSize < 0 {
		opts.SampleSize = 0
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Analyzer{profiler: p, opts: opts, logger: log, metrics: rec}
}

type outcome struct {
	rec profiler.SampleRecord
	err error
}

// Analyze profiles the first SampleSize keys of b and reduces them into a
// report. Per-key failures are absorbed into the report; only
// cancellation of ctx returns an error.
func (a *Analyzer) Analyze(ctx context.Context, b *keyspace.Bucket) (PatternReport, error) {
	n := a.opts.SampleSize
	if n > b.Len() {
		n = b.Len()
	}
	sample := b.Keys[:n]
	results := make([]outcome, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, key := range sample {
		i, key := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := a.profiler.Profile(gctx, key)
			results[i] = outcome{rec: rec, err: err}
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PatternReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return PatternReport{}, err
	}

	return a.reduce(b, results), nil
}

func (a *Analyzer) reduce(b *keyspace.Bucket, results []outcome) PatternReport {
	log := a.logger.WithPattern(b.Pattern)
	rep := newPatternReport(b.Pattern, b.Len())
	rep.Sampled = len(results)

	for i, o := range results {
		if i < sampleKeyLimit {
			rep.SampleKeys = append(rep.SampleKeys, b.Keys[i])
		}

		if o.err != nil {
			rep.Failed++
			rep.Failures = append(rep.Failures, Failure{Key: b.Keys[i], Reason: o.err.Error()})
			log.WithKey(b.Keys[i]).Warnw("Failed to profile key", "error", o.err)
			a.metrics.Profile(metrics.OutcomeFailed, "", o.rec.Duration)
			continue
		}

		rep.TTL[o.rec.TTL]++
		if o.rec.Miss {
			rep.Missed++
			log.WithKey(o.rec.Key).Debugw("Key vanished before profiling")
			a.metrics.Profile(metrics.OutcomeMiss, "", o.rec.Duration)
			continue
		}

		rep.Profiled++
		rep.Shapes[o.rec.Shape]++
		if o.rec.MemoryBytes != nil {
			rep.MemoryBytes += *o.rec.MemoryBytes
			rep.MemoryMeasured++
		} else {
			rep.MemoryUnmeasured++
		}
		if len(rep.Samples) < a.opts.RetainedSamples {
			rep.Samples = append(rep.Samples, o.rec)
		}
		a.metrics.Profile(metrics.OutcomeProfiled, o.rec.Shape.String(), o.rec.Duration)
	}

	if rep.MemoryMeasured > 0 {
		rep.AvgMemoryBytes = float64(rep.MemoryBytes) / float64(rep.MemoryMeasured)
	}

	log.Debugw("Pattern analyzed",
		"total_keys", rep.TotalKeys,
		"sampled", rep.Sampled,
		"failed", rep.Failed,
		"missed", rep.Missed,
	)
	return rep
}

// since returns the elapsed time rounded to milliseconds.
func since(t time.Time) time.Duration {
	return time.Since(t).Round(time.Millisecond)
}
