package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := NewSQLiteIndex(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

// TestQuery_RanksBySimilarity verifies matches come back ordered by cosine
// similarity and truncated to topK.
func TestQuery_RanksBySimilarity(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Upsert("u1#a", []float32{1, 0, 0}, map[string]string{"user_id": "u1", "entry_id": "a"}))
	require.NoError(t, idx.Upsert("u1#b", []float32{0.9, 0.1, 0}, map[string]string{"user_id": "u1", "entry_id": "b"}))
	require.NoError(t, idx.Upsert("u1#c", []float32{0, 0, 1}, map[string]string{"user_id": "u1", "entry_id": "c"}))

	matches, err := idx.Query([]float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "u1#a", matches[0].ID)
	assert.Equal(t, "u1#b", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

// TestQuery_MetadataFilter verifies the user_id filter is an exact match
// and never leaks another user's vectors.
func TestQuery_MetadataFilter(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Upsert("u1#a", []float32{1, 0}, map[string]string{"user_id": "u1"}))
	require.NoError(t, idx.Upsert("u11#b", []float32{1, 0}, map[string]string{"user_id": "u11"}))

	matches, err := idx.Query([]float32{1, 0}, 10, map[string]string{"user_id": "u1"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "u1#a", matches[0].ID)

	matches, err = idx.Query([]float32{1, 0}, 10, map[string]string{"user_id": "u3"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// TestUpsert_Replaces verifies a second upsert with the same id replaces
// the stored embedding and metadata.
func TestUpsert_Replaces(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Upsert("u1#a", []float32{1, 0}, map[string]string{"content": "old"}))
	require.NoError(t, idx.Upsert("u1#a", []float32{0, 1}, map[string]string{"content": "new"}))

	matches, err := idx.Query([]float32{0, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Metadata["content"])
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-6)
}

// TestDelete removes vectors by id and tolerates empty input.
func TestDelete(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Upsert("u1#a", []float32{1, 0}, map[string]string{}))
	require.NoError(t, idx.Upsert("u1#b", []float32{0, 1}, map[string]string{}))

	require.NoError(t, idx.Delete())
	require.NoError(t, idx.Delete("u1#a", "u1#missing"))

	matches, err := idx.Query([]float32{1, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "u1#b", matches[0].ID)
}

// TestVectorID verifies the composite id format.
func TestVectorID(t *testing.T) {
	assert.Equal(t, "u1#e9", VectorID("u1", "e9"))
}

// TestCosineSimilarity covers the orthogonal, identical, and mismatched
// dimension cases.
func TestCosineSimilarity(t *testing.T) {
	s, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, float64(s), 1e-6)

	s, err = CosineSimilarity([]float32{2, 2}, []float32{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(s), 1e-6)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.Error(t, err)

	_, err = CosineSimilarity(nil, []float32{1})
	assert.Error(t, err)
}
