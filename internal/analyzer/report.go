package analyzer

import (
	"sort"
	"time"

	"github.com/dbsmedya/keyprofiler/internal/profiler"
)

// Failure is a sampled key whose profile could not be taken.
type Failure struct {
	Key    string `json:"key" yaml:"key"`
	Reason string `json:"reason" yaml:"reason"`
}

// PatternReport aggregates the samples taken from one pattern bucket.
// TotalKeys is the bucket size; every other count is derived from the
// sample only.
type PatternReport struct {
	Pattern   string `json:"pattern" yaml:"pattern"`
	TotalKeys int    `json:"total_keys" yaml:"total_keys"`

	Sampled  int `json:"sampled" yaml:"sampled"`
	Profiled int `json:"profiled" yaml:"profiled"`
	Missed   int `json:"missed" yaml:"missed"`
	Failed   int `json:"failed" yaml:"failed"`

	Shapes map[profiler.Shape]int     `json:"shapes" yaml:"shapes"`
	TTL    map[profiler.TTLStatus]int `json:"ttl" yaml:"ttl"`

	// Memory is summed and averaged over the samples the store measured.
	MemoryBytes      int64   `json:"memory_bytes" yaml:"memory_bytes"`
	AvgMemoryBytes   float64 `json:"avg_memory_bytes" yaml:"avg_memory_bytes"`
	MemoryMeasured   int     `json:"memory_measured" yaml:"memory_measured"`
	MemoryUnmeasured int     `json:"memory_unmeasured" yaml:"memory_unmeasured"`

	SampleKeys []string                `json:"sample_keys" yaml:"sample_keys"`
	Samples    []profiler.SampleRecord `json:"samples,omitempty" yaml:"samples,omitempty"`
	Failures   []Failure               `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func newPatternReport(pattern string, total int) PatternReport {
	return PatternReport{
		Pattern:   pattern,
		TotalKeys: total,
		Shapes:    make(map[profiler.Shape]int),
		TTL:       make(map[profiler.TTLStatus]int),
	}
}

// EstimatedMemoryBytes extrapolates the sampled average to the whole
// bucket. It is zero when nothing was measured.
func (r PatternReport) EstimatedMemoryBytes() int64 {
	return int64(r.AvgMemoryBytes * float64(r.TotalKeys))
}

// AnalysisResult is the outcome of one complete run.
type AnalysisResult struct {
	RunID        string                   `json:"run_id" yaml:"run_id"`
	StartedAt    time.Time                `json:"started_at" yaml:"started_at"`
	ScanDuration time.Duration            `json:"scan_duration_ns" yaml:"scan_duration_ns"`
	Duration     time.Duration            `json:"duration_ns" yaml:"duration_ns"`
	ScanPages    int                      `json:"scan_pages" yaml:"scan_pages"`
	TotalKeys    int                      `json:"total_keys" yaml:"total_keys"`
	Patterns     map[string]PatternReport `json:"patterns" yaml:"patterns"`
}

// TotalMemoryBytes sums the measured memory of every pattern.
func (r AnalysisResult) TotalMemoryBytes() int64 {
	var total int64
	for _, p := range r.Patterns {
		total += p.MemoryBytes
	}
	return total
}

// Ordered returns the pattern reports by descending TotalKeys, ties
// broken by pattern name.
func (r AnalysisResult) Ordered() []PatternReport {
	out := make([]PatternReport, 0, len(r.Patterns))
	for _, p := range r.Patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalKeys != out[j].TotalKeys {
			return out[i].TotalKeys > out[j].TotalKeys
		}
		return out[i].Pattern < out[j].Pattern
	})
	return out
}
