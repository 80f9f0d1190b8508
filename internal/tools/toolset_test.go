package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/vector"
)

// Shared fakes for the tool tests. Each fake implements just the interface
// the toolset needs, with an injectable error.

var fixedNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

type fakeMetrics struct {
	samples []store.HealthMetric
	err     error
}

func (f *fakeMetrics) MetricsInRange(userID, metricType string, from, to time.Time) ([]store.HealthMetric, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.HealthMetric
	for _, m := range f.samples {
		if m.UserID != userID {
			continue
		}
		if metricType != "" && m.MetricType != metricType {
			continue
		}
		if m.Timestamp.Before(from) || m.Timestamp.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeJournal struct {
	entries   []store.JournalEntry
	listErr   error
	searchErr error
}

func (f *fakeJournal) JournalEntries(userID string) ([]store.JournalEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []store.JournalEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeJournal) SearchJournalContent(userID, substr string, limit int) ([]store.JournalEntry, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []store.JournalEntry
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(e.Content), strings.ToLower(substr)) {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeIndex struct {
	matches   []vector.Match
	err       error
	gotFilter map[string]string
}

func (f *fakeIndex) Upsert(id string, embedding []float32, metadata map[string]string) error {
	return nil
}

func (f *fakeIndex) Query(embedding []float32, topK int, filter map[string]string) ([]vector.Match, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	if topK > 0 && len(f.matches) > topK {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

func (f *fakeIndex) Delete(ids ...string) error { return nil }

type fakeResearcher struct {
	answer    string
	citations []string
	err       error
}

func (f *fakeResearcher) Research(ctx context.Context, query string) (string, []string, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.answer, f.citations, nil
}

// dailySamples generates one sample per day ending the day before fixedNow,
// with values from f(i) for i = 0..n-1 (oldest first).
func dailySamples(userID, metricType string, n int, f func(i int) float64) []store.HealthMetric {
	samples := make([]store.HealthMetric, 0, n)
	for i := 0; i < n; i++ {
		ts := fixedNow.AddDate(0, 0, -(n - i)).Truncate(24 * time.Hour).Add(8 * time.Hour)
		samples = append(samples, store.HealthMetric{
			UserID:     userID,
			Timestamp:  ts,
			MetricType: metricType,
			Value:      fmt.Sprintf("%g", f(i)),
			Source:     "test",
		})
	}
	return samples
}
