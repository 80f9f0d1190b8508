// Package vector provides the journal embedding index. The Index interface
// mirrors a hosted vector database (upsert/query/delete with metadata and an
// exact-match filter); the bundled implementation keeps vectors in SQLite
// and scores them in-process.
package vector

// VectorID builds the index id for a journal entry. The user id is part of
// the id so a record can never be addressed without naming its owner.
func VectorID(userID, entryID string) string {
	return userID + "#" + entryID
}

// Match is one query hit.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

type Index interface {
	Upsert(id string, embedding []float32, metadata map[string]string) error
	// Query returns up to topK matches by descending similarity. Every
	// filter key must match the record's metadata exactly.
	Query(embedding []float32, topK int, filter map[string]string) ([]Match, error)
	Delete(ids ...string) error
}
