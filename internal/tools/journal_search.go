package tools

import (
	"context"
	"fmt"
	"log"
)

// SearchPrivateJournal embeds the query and runs a nearest-neighbor search
// over the user's slice of the vector index, falling back to a literal
// substring search when semantic search comes up empty but entries exist.
func (t *Toolset) SearchPrivateJournal(ctx context.Context, userID, query string, nResults int) Outcome {
	if nResults <= 0 {
		nResults = 5
	}

	log.Printf("[TOOL] search_private_journal user=%s query=%q n=%d", userID, query, nResults)

	entries, err := t.Journal.JournalEntries(userID)
	if err != nil {
		log.Printf("[TOOL] search_private_journal store error: %v", err)
		return upstreamFailure(map[string]any{
			"query":   query,
			"results": []any{},
			"count":   0,
			"error":   err.Error(),
			"message": fmt.Sprintf("Journal search encountered an error: %s", err.Error()),
		})
	}

	if len(entries) == 0 {
		return ok(map[string]any{
			"query":   query,
			"results": []any{},
			"count":   0,
			"message": "You haven't created any journal entries yet. Start journaling to enable searches!",
		})
	}

	results := t.semanticSearch(ctx, userID, query, nResults)

	payload := map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
		"tool":    "semantic_journal_search",
	}

	if len(results) > 0 {
		log.Printf("[TOOL] search_private_journal: %d semantic matches", len(results))
		return ok(payload)
	}

	// Semantic search found nothing but the user does have entries; try a
	// literal case-insensitive match before giving up.
	log.Printf("[TOOL] search_private_journal: no semantic matches, trying keyword fallback")
	fallback, err := t.Journal.SearchJournalContent(userID, query, nResults)
	if err != nil {
		log.Printf("[TOOL] search_private_journal keyword fallback failed: %v", err)
		payload["message"] = fmt.Sprintf("No matching journal entries found for '%s'. You have %d journal entries, but search failed.", query, len(entries))
		return ok(payload)
	}

	if len(fallback) > 0 {
		results = make([]map[string]any, 0, len(fallback))
		for _, e := range fallback {
			results = append(results, map[string]any{
				"entry_id":      e.ID,
				"date":          e.Date,
				"content":       e.Content,
				"similarity":    0.0, // no similarity score for keyword search
				"search_method": "keyword_fallback",
			})
		}
		payload["results"] = results
		payload["count"] = len(results)
		payload["search_method"] = "keyword_fallback"
		payload["message"] = fmt.Sprintf("Found %d entries using keyword search (semantic search returned no results)", len(results))
		return ok(payload)
	}

	payload["message"] = fmt.Sprintf("No matching journal entries found for '%s'. You have %d journal entries, but none matched this search.", query, len(entries))
	return ok(payload)
}

// semanticSearch returns the formatted vector matches, or nil when
// embedding or querying fails (the caller falls back to keywords).
func (t *Toolset) semanticSearch(ctx context.Context, userID, query string, nResults int) []map[string]any {
	embedding, err := t.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Printf("[TOOL] search_private_journal embedding failed: %v", err)
		return nil
	}

	matches, err := t.Index.Query(embedding, nResults, map[string]string{"user_id": userID})
	if err != nil {
		log.Printf("[TOOL] search_private_journal index query failed: %v", err)
		return nil
	}

	results := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]any{
			"entry_id":   m.Metadata["entry_id"],
			"date":       m.Metadata["date"],
			"content":    m.Metadata["content"],
			"similarity": float64(m.Score),
		})
	}
	return results
}
