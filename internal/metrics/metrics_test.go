package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.ScanPage(10)
	r.ScanPage(5)
	r.Patterns(3)
	r.Profile(OutcomeProfiled, "scalar", time.Millisecond)
	r.Profile(OutcomeProfiled, "scalar", time.Millisecond)
	r.Profile(OutcomeProfiled, "map", time.Millisecond)
	r.Profile(OutcomeFailed, "", time.Second)
	r.Profile(OutcomeMiss, "", time.Millisecond)
	r.Phase("scan", 2*time.Second)

	assert.Equal(t, 15.0, testutil.ToFloat64(r.keysScanned))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.scanPages))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.patterns))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.profiles.WithLabelValues(OutcomeProfiled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.profiles.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.profiles.WithLabelValues(OutcomeMiss)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.shapes.WithLabelValues("scalar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.shapes.WithLabelValues("map")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.phaseDuration.WithLabelValues("scan")))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ScanPage(7)

	assert.Equal(t, 7.0, testutil.ToFloat64(a.keysScanned))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.keysScanned))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ScanPage(1)
		r.Patterns(1)
		r.Profile(OutcomeProfiled, "scalar", time.Millisecond)
		r.Phase("scan", time.Second)
		r.Succeeded(time.Now())
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ScanPage(42)
	r.Succeeded(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "keyprofiler.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keyprofiler_scan_keys_total 42")
	assert.Contains(t, string(data), "keyprofiler_last_success_timestamp_seconds")
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
