package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func journalToolset(journal *fakeJournal, embedder *fakeEmbedder, index *fakeIndex) *Toolset {
	ts := testToolset(&fakeMetrics{})
	ts.Journal = journal
	ts.Embedder = embedder
	ts.Index = index
	return ts
}

// TestSearchPrivateJournal_NoEntries verifies the friendly short-circuit
// for users who have never journaled.
func TestSearchPrivateJournal_NoEntries(t *testing.T) {
	ts := journalToolset(&fakeJournal{}, &fakeEmbedder{}, &fakeIndex{})

	outcome := ts.SearchPrivateJournal(context.Background(), "u1", "stress", 5)
	require.Equal(t, KindOK, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, 0, p["count"])
	assert.Equal(t, "You haven't created any journal entries yet. Start journaling to enable searches!", p["message"])
}

// TestSearchPrivateJournal_SemanticHits verifies the semantic path formats
// index matches and scopes the query to the user.
func TestSearchPrivateJournal_SemanticHits(t *testing.T) {
	journal := &fakeJournal{entries: []store.JournalEntry{
		{ID: "e1", UserID: "u1", Date: "2026-08-20", Content: "Felt anxious before the meeting"},
	}}
	index := &fakeIndex{matches: []vector.Match{
		{ID: "u1#e1", Score: 0.87, Metadata: map[string]string{
			"entry_id": "e1", "date": "2026-08-20", "content": "Felt anxious before the meeting",
		}},
	}}
	ts := journalToolset(journal, &fakeEmbedder{vec: []float32{0.1, 0.2}}, index)

	outcome := ts.SearchPrivateJournal(context.Background(), "u1", "anxiety", 5)
	require.Equal(t, KindOK, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, "semantic_journal_search", p["tool"])
	assert.Equal(t, 1, p["count"])

	results := p["results"].([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, "e1", results[0]["entry_id"])
	assert.InDelta(t, 0.87, results[0]["similarity"].(float64), 1e-6)

	assert.Equal(t, map[string]string{"user_id": "u1"}, index.gotFilter,
		"index query must be filtered to the requesting user")
}

// TestSearchPrivateJournal_KeywordFallback verifies that when semantic
// search returns nothing the tool falls back to substring matching, with a
// zero similarity score and an explicit method marker.
func TestSearchPrivateJournal_KeywordFallback(t *testing.T) {
	journal := &fakeJournal{entries: []store.JournalEntry{
		{ID: "e1", UserID: "u1", Date: "2026-08-20", Content: "Headache again after coffee"},
		{ID: "e2", UserID: "u1", Date: "2026-08-21", Content: "Good long run today"},
	}}
	ts := journalToolset(journal, &fakeEmbedder{vec: []float32{0.1}}, &fakeIndex{})

	outcome := ts.SearchPrivateJournal(context.Background(), "u1", "headache", 5)
	require.Equal(t, KindOK, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, "keyword_fallback", p["search_method"])
	assert.Equal(t, 1, p["count"])

	results := p["results"].([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, "e1", results[0]["entry_id"])
	assert.Equal(t, 0.0, results[0]["similarity"])
	assert.Equal(t, "keyword_fallback", results[0]["search_method"])
}

// TestSearchPrivateJournal_EmbeddingFailureFallsBack verifies an embedding
// outage degrades to keyword search instead of failing the tool.
func TestSearchPrivateJournal_EmbeddingFailureFallsBack(t *testing.T) {
	journal := &fakeJournal{entries: []store.JournalEntry{
		{ID: "e1", UserID: "u1", Date: "2026-08-20", Content: "Slept terribly"},
	}}
	ts := journalToolset(journal, &fakeEmbedder{err: errors.New("quota exceeded")}, &fakeIndex{})

	outcome := ts.SearchPrivateJournal(context.Background(), "u1", "slept", 5)
	require.Equal(t, KindOK, outcome.Kind)
	assert.Equal(t, 1, outcome.Payload["count"])
	assert.Equal(t, "keyword_fallback", outcome.Payload["search_method"])
}

// TestSearchPrivateJournal_NoMatches verifies the no-result message still
// tells the model how many entries exist.
func TestSearchPrivateJournal_NoMatches(t *testing.T) {
	journal := &fakeJournal{entries: []store.JournalEntry{
		{ID: "e1", UserID: "u1", Date: "2026-08-20", Content: "Quiet day"},
		{ID: "e2", UserID: "u1", Date: "2026-08-21", Content: "Another quiet day"},
	}}
	ts := journalToolset(journal, &fakeEmbedder{vec: []float32{0.1}}, &fakeIndex{})

	outcome := ts.SearchPrivateJournal(context.Background(), "u1", "marathon", 5)
	require.Equal(t, KindOK, outcome.Kind)
	assert.Equal(t, 0, outcome.Payload["count"])
	assert.Contains(t, outcome.Payload["message"], "You have 2 journal entries")
}

// TestSearchPrivateJournal_StoreError verifies a listing fault comes back
// as an upstream failure.
func TestSearchPrivateJournal_StoreError(t *testing.T) {
	ts := journalToolset(&fakeJournal{listErr: errors.New("locked")}, &fakeEmbedder{}, &fakeIndex{})

	outcome := ts.SearchPrivateJournal(context.Background(), "u1", "anything", 5)
	require.Equal(t, KindUpstreamFailure, outcome.Kind)
	assert.Equal(t, "locked", outcome.Payload["error"])
}
