package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExternalResearch_Success verifies the cited answer payload, including
// the per-citation source entries with host titles.
func TestExternalResearch_Success(t *testing.T) {
	ts := testToolset(&fakeMetrics{})
	ts.Researcher = &fakeResearcher{
		answer:    "Adults need 7-9 hours of sleep.",
		citations: []string{"https://www.sleepfoundation.org/how-sleep-works", "https://www.cdc.gov/sleep"},
	}

	outcome := ts.ExternalResearch(context.Background(), "how much sleep do adults need")
	require.Equal(t, KindOK, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, "Adults need 7-9 hours of sleep.", p["answer"])
	assert.Equal(t, "perplexity_research", p["tool"])
	assert.Equal(t, "sonar-pro", p["model"])

	sources := p["sources"].([]map[string]any)
	require.Len(t, sources, 2)
	assert.Equal(t, "www.sleepfoundation.org", sources[0]["title"])
	assert.Equal(t, "https://www.cdc.gov/sleep", sources[1]["url"])
}

// TestExternalResearch_Failure verifies the error is reported in-band with
// an apologetic answer, never as a crash.
func TestExternalResearch_Failure(t *testing.T) {
	ts := testToolset(&fakeMetrics{})
	ts.Researcher = &fakeResearcher{err: errors.New("502 from upstream")}

	outcome := ts.ExternalResearch(context.Background(), "anything")
	require.Equal(t, KindUpstreamFailure, outcome.Kind)

	p := outcome.Payload
	assert.Equal(t, "502 from upstream", p["error"])
	assert.Contains(t, p["answer"], "Unable to complete research query")
	assert.Empty(t, p["citations"])
}
