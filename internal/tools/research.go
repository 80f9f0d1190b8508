package tools

import (
	"context"
	"fmt"
	"log"
	"net/url"
)

// ExternalResearch runs one cited web-research completion. This is the only
// tool that takes no user id; it sees nothing but the query.
func (t *Toolset) ExternalResearch(ctx context.Context, query string) Outcome {
	log.Printf("[TOOL] external_research query=%q", query)

	answer, citations, err := t.Researcher.Research(ctx, query)
	if err != nil {
		log.Printf("[TOOL] external_research failed: %v", err)
		return upstreamFailure(map[string]any{
			"query":     query,
			"answer":    fmt.Sprintf("Unable to complete research query. Error: %s", err.Error()),
			"citations": []string{},
			"sources":   []any{},
			"error":     err.Error(),
		})
	}

	sources := make([]map[string]any, 0, len(citations))
	for _, citation := range citations {
		sources = append(sources, map[string]any{
			"url":   citation,
			"title": extractDomain(citation),
		})
	}

	log.Printf("[TOOL] external_research complete with %d citations", len(citations))
	return ok(map[string]any{
		"query":     query,
		"answer":    answer,
		"citations": citations,
		"sources":   sources,
		"tool":      "perplexity_research",
		"model":     "sonar-pro",
	})
}

// extractDomain pulls the host out of a citation URL for display.
func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
