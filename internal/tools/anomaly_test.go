package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToolset(metrics *fakeMetrics) *Toolset {
	return &Toolset{
		Metrics: metrics,
		Now:     func() time.Time { return fixedNow },
	}
}

// TestDetectAnomalies_FindsPlantedSpikes verifies readings far outside the
// normal band are reported with their dates and values.
func TestDetectAnomalies_FindsPlantedSpikes(t *testing.T) {
	samples := dailySamples("u1", "heart_rate_resting", 28, func(i int) float64 {
		if i >= 25 {
			return 150 + 5*float64(i-25) // three planted spikes
		}
		return 70 + float64(i%5)
	})
	ts := testToolset(&fakeMetrics{samples: samples})

	outcome := ts.DetectAnomalies(context.Background(), "u1", "heart rate", 30, 0.15)
	require.Equal(t, KindOK, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, true, p["anomalies_found"])
	assert.Equal(t, "heart_rate_resting", p["metric_name"])
	assert.Equal(t, 28, p["total_data_points"])

	values := p["anomaly_values"].([]float64)
	for _, spike := range []float64{150, 155, 160} {
		assert.Contains(t, values, spike)
	}
	dates := p["anomaly_dates"].([]string)
	assert.Len(t, dates, len(values))
}

// TestDetectAnomalies_InsufficientData verifies fewer than 5 numeric points
// comes back as an in-band insufficiency, not a failure.
func TestDetectAnomalies_InsufficientData(t *testing.T) {
	samples := dailySamples("u1", "steps", 3, func(i int) float64 { return 5000 })
	ts := testToolset(&fakeMetrics{samples: samples})

	outcome := ts.DetectAnomalies(context.Background(), "u1", "steps", 30, 0.1)
	require.Equal(t, KindInsufficientData, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, false, p["anomalies_found"])
	assert.Equal(t, 3, p["data_points"])
	assert.Contains(t, p["error"], "at least 5 data points")
}

// TestDetectAnomalies_SkipsNonNumeric verifies composite readings like
// "120/80" are dropped before fitting rather than failing the tool.
func TestDetectAnomalies_SkipsNonNumeric(t *testing.T) {
	samples := dailySamples("u1", "blood_pressure", 4, func(i int) float64 { return 0 })
	for i := range samples {
		samples[i].Value = "120/80"
	}
	ts := testToolset(&fakeMetrics{samples: samples})

	outcome := ts.DetectAnomalies(context.Background(), "u1", "blood_pressure", 30, 0.1)
	require.Equal(t, KindInsufficientData, outcome.Kind)
	assert.Equal(t, 0, outcome.Payload["data_points"])
}

// TestDetectAnomalies_StoreError verifies a store fault is reported as an
// upstream failure with the error in-band.
func TestDetectAnomalies_StoreError(t *testing.T) {
	ts := testToolset(&fakeMetrics{err: errors.New("disk on fire")})

	outcome := ts.DetectAnomalies(context.Background(), "u1", "steps", 30, 0.1)
	require.Equal(t, KindUpstreamFailure, outcome.Kind)
	assert.Equal(t, "disk on fire", outcome.Payload["error"])
	assert.Equal(t, false, outcome.Payload["anomalies_found"])
}

// TestDetectAnomalies_Deterministic verifies repeated runs over the same
// data flag the same points.
func TestDetectAnomalies_Deterministic(t *testing.T) {
	samples := dailySamples("u1", "steps", 25, func(i int) float64 {
		if i == 20 {
			return 30000
		}
		return 5000 + 100*float64(i%7)
	})
	ts := testToolset(&fakeMetrics{samples: samples})

	first := ts.DetectAnomalies(context.Background(), "u1", "steps", 30, 0.1)
	second := ts.DetectAnomalies(context.Background(), "u1", "steps", 30, 0.1)
	assert.Equal(t, first.Payload["anomaly_values"], second.Payload["anomaly_values"])
	assert.Equal(t, first.Payload["anomaly_dates"], second.Payload["anomaly_dates"])
}
