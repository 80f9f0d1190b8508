package tools

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/axion-health/axion-api/internal/analysis"
	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/vector"
)

// MetricStore reads per-user health samples. An empty metricType matches
// all metrics.
type MetricStore interface {
	MetricsInRange(userID, metricType string, from, to time.Time) ([]store.HealthMetric, error)
}

// JournalStore reads per-user journal entries.
type JournalStore interface {
	JournalEntries(userID string) ([]store.JournalEntry, error)
	SearchJournalContent(userID, substr string, limit int) ([]store.JournalEntry, error)
}

// Embedder produces query-task embeddings. Document-task embedding happens
// at journal write time; the two modes are tuned separately.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Researcher performs one web-augmented completion and reports cited URLs.
type Researcher interface {
	Research(ctx context.Context, query string) (answer string, citations []string, err error)
}

// Toolset bundles the dependencies shared by the tools. All clients are
// injected so tests can substitute fakes.
type Toolset struct {
	Metrics    MetricStore
	Journal    JournalStore
	Index      vector.Index
	Embedder   Embedder
	Researcher Researcher

	// Aggregate collapses same-day readings; defaults to analysis.Mean.
	Aggregate analysis.Aggregator
	// Now defaults to time.Now; fixed in tests.
	Now func() time.Time
	// Seed for the isolation forest. Fixed so identical inputs reproduce
	// identical outlier sets.
	Seed int64
}

const defaultSeed = 42

func (t *Toolset) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now().UTC()
}

func (t *Toolset) aggregator() analysis.Aggregator {
	if t.Aggregate != nil {
		return t.Aggregate
	}
	return analysis.Mean
}

func (t *Toolset) seed() int64 {
	if t.Seed != 0 {
		return t.Seed
	}
	return defaultSeed
}

// numericPoints coerces sample values to numbers, silently dropping values
// that do not parse (composite readings like "120/80").
func numericPoints(samples []store.HealthMetric) []analysis.Point {
	points := make([]analysis.Point, 0, len(samples))
	for _, s := range samples {
		v, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
		if err != nil {
			continue
		}
		points = append(points, analysis.Point{Time: s.Timestamp, Value: v})
	}
	return points
}
