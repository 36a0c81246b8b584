// Package metrics collects run metrics for a profiling run on a private
// Prometheus registry and writes them out as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "keyprofiler"

// Profile outcomes.
const (
	OutcomeProfiled = "profiled"
	OutcomeMiss     = "miss"
	OutcomeFailed   = "failed"
)

// Recorder holds the collectors for one run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	keysScanned     prometheus.Counter
	scanPages       prometheus.Counter
	patterns        prometheus.Gauge
	profiles        *prometheus.CounterVec
	shapes          *prometheus.CounterVec
	profileDuration prometheus.Histogram
	phaseDuration   *prometheus.GaugeVec
	lastSuccess     prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		keysScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "keys_total",
			Help:      "Keys returned by the keyspace scan",
		}),
		scanPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "pages_total",
			Help:      "SCAN pages fetched",
		}),
		patterns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "patterns",
			Help:      "Distinct key patterns found by the last run",
		}),
		profiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "keys_total",
			Help:      "Sampled keys by profile outcome",
		}, []string{"outcome"}),
		shapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "shapes_total",
			Help:      "Profiled keys by value shape",
		}, []string{"shape"}),
		profileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "duration_seconds",
			Help:      "Time to profile one key",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		phaseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall time of each run phase",
		}, []string{"phase"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run completed",
		}),
	}

	reg.MustRegister(
		r.keysScanned,
		r.scanPages,
		r.patterns,
		r.profiles,
		r.shapes,
		r.profileDuration,
		r.phaseDuration,
		r.lastSuccess,
	)
	return r
}

// Registry exposes the run's registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ScanPage records one SCAN page holding n keys.
func (r *Recorder) ScanPage(n int) {
	if r == nil {
		return
	}
	r.scanPages.Inc()
	r.keysScanned.Add(float64(n))
}

// Patterns sets the number of distinct patterns.
func (r *Recorder) Patterns(n int) {
	if r == nil {
		return
	}
	r.patterns.Set(float64(n))
}

// Profile records one profile attempt. shape is ignored unless the
// outcome is OutcomeProfiled.
func (r *Recorder) Profile(outcome, shape string, d time.Duration) {
	if r == nil {
		return
	}
	r.profiles.WithLabelValues(outcome).Inc()
	if outcome == OutcomeProfiled {
		r.shapes.WithLabelValues(shape).Inc()
	}
	r.profileDuration.Observe(d.Seconds())
}

// Phase records how long a run phase took.
func (r *Recorder) Phase(name string, d time.Duration) {
	if r == nil {
		return
	}
	r.phaseDuration.WithLabelValues(name).Set(d.Seconds())
}

// Succeeded marks the run as completed at t.
func (r *Recorder) Succeeded(t time.Time) {
	if r == nil {
		return
	}
	r.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
