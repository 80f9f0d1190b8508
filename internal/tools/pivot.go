package tools

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/axion-health/axion-api/internal/analysis"
	"github.com/axion-health/axion-api/internal/store"
)

// pivotDaily builds a date-by-metric table of daily aggregates from raw
// samples. Non-numeric values are dropped. Returns the table keyed by UTC
// day and the sorted metric column names.
func pivotDaily(samples []store.HealthMetric, agg analysis.Aggregator) (map[time.Time]map[string]float64, []string) {
	if agg == nil {
		agg = analysis.Mean
	}

	type cell struct {
		day    time.Time
		metric string
	}
	grouped := make(map[cell][]float64)
	metricSet := make(map[string]bool)

	for _, s := range samples {
		v, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
		if err != nil {
			continue
		}
		day := s.Timestamp.UTC().Truncate(24 * time.Hour)
		grouped[cell{day: day, metric: s.MetricType}] = append(grouped[cell{day: day, metric: s.MetricType}], v)
		metricSet[s.MetricType] = true
	}

	table := make(map[time.Time]map[string]float64)
	for c, values := range grouped {
		row, okRow := table[c.day]
		if !okRow {
			row = make(map[string]float64)
			table[c.day] = row
		}
		row[c.metric] = agg(values)
	}

	metricNames := make([]string, 0, len(metricSet))
	for m := range metricSet {
		metricNames = append(metricNames, m)
	}
	sort.Strings(metricNames)
	return table, metricNames
}

// alignedSeries extracts the paired values of two metrics over the days
// where both have a reading, in chronological order.
func alignedSeries(table map[time.Time]map[string]float64, m1, m2 string) ([]float64, []float64) {
	days := make([]time.Time, 0, len(table))
	for day, row := range table {
		if _, ok1 := row[m1]; !ok1 {
			continue
		}
		if _, ok2 := row[m2]; !ok2 {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	x := make([]float64, len(days))
	y := make([]float64, len(days))
	for i, day := range days {
		x[i] = table[day][m1]
		y[i] = table[day][m2]
	}
	return x, y
}
