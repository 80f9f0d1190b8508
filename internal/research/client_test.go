package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResearch_ParsesCitations verifies the answer text and the top-level
// citations array are both returned.
func TestResearch_ParsesCitations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar-pro", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "benefits of zone 2 cardio", req.Messages[1].Content)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Zone 2 improves mitochondrial density."}},
			},
			"citations": []string{"https://pubmed.ncbi.nlm.nih.gov/12345"},
		})
	}))
	defer server.Close()

	c := NewClient("test-key")
	c.baseURL = server.URL

	answer, citations, err := c.Research(context.Background(), "benefits of zone 2 cardio")
	require.NoError(t, err)
	assert.Equal(t, "Zone 2 improves mitochondrial density.", answer)
	assert.Equal(t, []string{"https://pubmed.ncbi.nlm.nih.gov/12345"}, citations)
}

// TestResearch_UpstreamError verifies non-200 responses surface the status
// and body.
func TestResearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient("test-key")
	c.baseURL = server.URL

	_, _, err := c.Research(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

// TestResearch_MissingAPIKey verifies the client refuses to call out
// without credentials.
func TestResearch_MissingAPIKey(t *testing.T) {
	c := NewClient("")
	_, _, err := c.Research(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

// TestResearch_NoChoices verifies an empty completion is an error rather
// than an empty answer.
func TestResearch_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := NewClient("test-key")
	c.baseURL = server.URL

	_, _, err := c.Research(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
