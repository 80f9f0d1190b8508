package tools

import (
	"context"
	"log"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FindCorrelations pivots the user's metrics to a date-by-metric table of
// daily aggregates and reports every pair whose Pearson coefficient clears
// the threshold.
func (t *Toolset) FindCorrelations(ctx context.Context, userID string, lookbackDays int, minCorrelation float64) Outcome {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if minCorrelation == 0 {
		minCorrelation = 0.3
	}

	end := t.now()
	start := end.AddDate(0, 0, -lookbackDays)

	log.Printf("[TOOL] find_correlations user=%s lookback=%d min=%v", userID, lookbackDays, minCorrelation)

	samples, err := t.Metrics.MetricsInRange(userID, "", start, end)
	if err != nil {
		log.Printf("[TOOL] find_correlations store error: %v", err)
		return upstreamFailure(map[string]any{
			"correlations": []any{},
			"error":        err.Error(),
		})
	}

	if len(samples) < 10 {
		return insufficientData(map[string]any{
			"correlations": []any{},
			"error":        "Insufficient data for correlation analysis. Need at least 10 data points.",
			"data_points":  len(samples),
		})
	}

	// Pivot: per metric, one aggregated scalar per calendar day.
	table, metricNames := pivotDaily(samples, t.aggregator())
	if len(metricNames) < 2 {
		return insufficientData(map[string]any{
			"correlations":  []any{},
			"error":         "Need at least 2 different metric types for correlation analysis",
			"metrics_found": metricNames,
		})
	}

	type pair struct {
		m1, m2 string
		r      float64
	}
	var pairs []pair
	for i := 0; i < len(metricNames); i++ {
		for j := i + 1; j < len(metricNames); j++ {
			x, y := alignedSeries(table, metricNames[i], metricNames[j])
			if len(x) < 2 {
				continue
			}
			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) {
				continue // zero-variance column, not an error
			}
			if math.Abs(r) >= minCorrelation {
				pairs = append(pairs, pair{m1: metricNames[i], m2: metricNames[j], r: r})
			}
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].r) > math.Abs(pairs[b].r)
	})

	correlations := make([]map[string]any, 0, len(pairs))
	for _, p := range pairs {
		direction := "negative"
		if p.r > 0 {
			direction = "positive"
		}
		correlations = append(correlations, map[string]any{
			"metric1":     p.m1,
			"metric2":     p.m2,
			"correlation": p.r,
			"strength":    correlationStrength(p.r),
			"direction":   direction,
		})
	}

	totalDays := len(table)

	log.Printf("[TOOL] find_correlations complete: %d significant pairs across %d metrics", len(correlations), len(metricNames))
	return ok(map[string]any{
		"correlations":     correlations,
		"metrics_analyzed": metricNames,
		"total_days":       totalDays,
		"date_range": map[string]any{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
	})
}

func correlationStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return "strong"
	case abs >= 0.4:
		return "moderate"
	default:
		return "weak"
	}
}
