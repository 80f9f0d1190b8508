package tools

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/axion-health/axion-api/internal/analysis"
	"github.com/axion-health/axion-api/internal/metrics"
	"gonum.org/v1/gonum/stat"
)

// DetectAnomalies fits an isolation forest over one metric's recent values
// and reports the outliers.
func (t *Toolset) DetectAnomalies(ctx context.Context, userID, metricName string, lookbackDays int, contamination float64) Outcome {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if contamination == 0 {
		contamination = 0.1
	}

	normalized := metrics.Normalize(metricName)
	end := t.now()
	start := end.AddDate(0, 0, -lookbackDays)

	log.Printf("[TOOL] detect_anomalies user=%s metric=%s lookback=%d", userID, normalized, lookbackDays)

	samples, err := t.Metrics.MetricsInRange(userID, normalized, start, end)
	if err != nil {
		log.Printf("[TOOL] detect_anomalies store error: %v", err)
		return upstreamFailure(map[string]any{
			"anomalies_found": false,
			"error":           err.Error(),
		})
	}

	points := numericPoints(samples)
	if len(points) < 5 {
		return insufficientData(map[string]any{
			"anomalies_found": false,
			"error":           fmt.Sprintf("Insufficient data for %s. Need at least 5 data points.", normalized),
			"data_points":     len(points),
		})
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	forest := analysis.FitIsolationForest(values, analysis.DefaultTrees, t.seed())
	outliers := forest.Outliers(contamination)

	anomalyDates := make([]string, 0, len(outliers))
	anomalyValues := make([]float64, 0, len(outliers))
	for _, idx := range outliers {
		anomalyDates = append(anomalyDates, points[idx].Time.UTC().Format(time.RFC3339))
		anomalyValues = append(anomalyValues, points[idx].Value)
	}

	result := map[string]any{
		"anomalies_found":   len(outliers) > 0,
		"anomaly_count":     len(outliers),
		"anomaly_dates":     anomalyDates,
		"anomaly_values":    anomalyValues,
		"mean_value":        stat.Mean(values, nil),
		"std_value":         stat.PopStdDev(values, nil),
		"total_data_points": len(values),
		"metric_name":       normalized,
		"date_range": map[string]any{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
	}

	log.Printf("[TOOL] detect_anomalies complete: %d anomalies in %d points", len(outliers), len(values))
	return ok(result)
}
