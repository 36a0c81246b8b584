package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/keyprofiler/internal/analyzer"
	"github.com/dbsmedya/keyprofiler/internal/profiler"
)

func int64Ptr(n int64) *int64 { return &n }

func sampleResult() analyzer.AnalysisResult {
	return analyzer.AnalysisResult{
		RunID:        "run-1",
		StartedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ScanDuration: 1500 * time.Millisecond,
		Duration:     3 * time.Second,
		TotalKeys:    1203,
		Patterns: map[string]analyzer.PatternReport{
			"card:{uuid}": {
				Pattern:        "card:{uuid}",
				TotalKeys:      1200,
				Sampled:        2,
				Profiled:       2,
				Shapes:         map[profiler.Shape]int{profiler.ShapeScalar: 2},
				TTL:            map[profiler.TTLStatus]int{profiler.TTLPermanent: 1, profiler.TTLTimed: 1},
				MemoryBytes:    2048,
				AvgMemoryBytes: 1024,
				MemoryMeasured: 2,
				SampleKeys:     []string{"card:a1b2c3d4-e5f6-7890-abcd-ef1234567890", "card:a9b8c7d6-e5f4-3210-fedc-ba0987654321"},
				Samples: []profiler.SampleRecord{{
					Key:         "card:a1b2c3d4-e5f6-7890-abcd-ef1234567890",
					Shape:       profiler.ShapeScalar,
					MemoryBytes: int64Ptr(1024),
					Preview: profiler.Preview{
						Encoding: profiler.EncodingJSON,
						Value:    map[string]interface{}{"name": "Lightning Bolt"},
						Length:   24,
					},
				}},
			},
			"set:{set_code}": {
				Pattern:    "set:{set_code}",
				TotalKeys:  3,
				Sampled:    3,
				Profiled:   2,
				Failed:     1,
				Shapes:     map[profiler.Shape]int{profiler.ShapeMap: 2},
				TTL:        map[profiler.TTLStatus]int{profiler.TTLPermanent: 2},
				Failures:   []analyzer.Failure{{Key: "set:MH3", Reason: "i/o timeout"}},
				SampleKeys: []string{"set:ABC", "set:MH3", "set:NEO"},
			},
		},
	}
}

func TestDetailed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Write(sampleResult(), "detailed"))
	out := buf.String()

	assert.Contains(t, out, "Total Keys:      1,203")
	assert.Contains(t, out, "Unique Patterns: 2")
	assert.Contains(t, out, "Total Memory:    2,048 bytes (0.00 MB")
	assert.Contains(t, out, "Count:   1,200 keys")
	assert.Contains(t, out, "Types:   scalar=2")
	assert.Contains(t, out, "avg 1,024.0 bytes/key")
	assert.Contains(t, out, "TTL:     1 with TTL, 1 permanent, 0 expired")
	assert.Contains(t, out, `→ {"name":"Lightning Bolt"}`)
	assert.Contains(t, out, "1 of 3 samples could not be profiled")
	assert.Contains(t, out, "set:MH3: i/o timeout")

	first := strings.Index(out, "Pattern: card:{uuid}")
	second := strings.Index(out, "Pattern: set:{set_code}")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second, "largest pattern first")

	assert.Equal(t, 1, strings.Count(out, "TTL:"), "TTL line only when some keys expire")
	assert.NotContains(t, out, "\x1b[", "no colour unless asked")
}

func TestDetailedSampleKeyLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{SampleKeys: 1}).Detailed(sampleResult()))
	assert.Contains(t, buf.String(), "• set:ABC")
	assert.NotContains(t, buf.String(), "• set:NEO")
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Write(sampleResult(), "summary"))
	out := buf.String()

	assert.Contains(t, out, "Keys")
	assert.Contains(t, out, "Pattern")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "card:{uuid}")
	assert.NotContains(t, out, "Sample data")
	assert.Less(t, strings.Index(out, "card:{uuid}"), strings.Index(out, "set:{set_code}"))
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, DefaultOptions()).Write(sampleResult(), "xml")
	assert.Error(t, err)
}

func TestEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Detailed(analyzer.AnalysisResult{}))
	assert.Contains(t, buf.String(), "Total Keys:      0")
	assert.Contains(t, buf.String(), "Unique Patterns: 0")
}

func TestClipUsesDisplayWidth(t *testing.T) {
	f := New(&bytes.Buffer{}, Options{PreviewWidth: 20})

	got := f.clip(strings.Repeat("漢", 30), 0)
	assert.Equal(t, strings.Repeat("漢", 8)+"...", got)

	got = f.clip("line one\nline two", 0)
	assert.Equal(t, "line one line two", got)
}

func TestShapeLine(t *testing.T) {
	assert.Equal(t, "none profiled", shapeLine(nil))
	assert.Equal(t, "map=3, scalar=1, list=1", shapeLine(map[profiler.Shape]int{
		profiler.ShapeScalar: 1,
		profiler.ShapeMap:    3,
		profiler.ShapeList:   1,
	}))
}
