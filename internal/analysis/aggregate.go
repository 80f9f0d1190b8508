package analysis

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Point is one timestamped numeric observation.
type Point struct {
	Time  time.Time
	Value float64
}

// DailyPoint is one aggregated observation per calendar day (UTC).
type DailyPoint struct {
	Date  time.Time
	Value float64
}

// Aggregator collapses same-day readings to a single scalar.
type Aggregator func(values []float64) float64

// Mean is the default same-day aggregation policy.
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// AggregateDaily groups points by UTC calendar day and collapses each group
// with agg, returning one point per day in chronological order.
func AggregateDaily(points []Point, agg Aggregator) []DailyPoint {
	if agg == nil {
		agg = Mean
	}

	byDay := make(map[time.Time][]float64)
	for _, p := range points {
		day := p.Time.UTC().Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], p.Value)
	}

	daily := make([]DailyPoint, 0, len(byDay))
	for day, values := range byDay {
		daily = append(daily, DailyPoint{Date: day, Value: agg(values)})
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})
	return daily
}
