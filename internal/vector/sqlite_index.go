package vector

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteIndex stores embeddings as JSON in SQLite and brute-forces cosine
// similarity at query time. Fine for per-user journal volumes; swap in a
// hosted index behind the same interface when collections grow.
type SQLiteIndex struct {
	db *sql.DB
}

func NewSQLiteIndex(dataSourceName string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping vector database: %w", err)
	}

	idx := &SQLiteIndex{db: db}
	if err = idx.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize vector schema: %w", err)
	}
	return idx, nil
}

// NewSQLiteIndexOn reuses an already-open database handle. The relational
// store and the vector index share one SQLite file in the default setup.
func NewSQLiteIndexOn(db *sql.DB) (*SQLiteIndex, error) {
	idx := &SQLiteIndex{db: db}
	if err := idx.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize vector schema: %w", err)
	}
	return idx, nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteIndex) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS journal_vectors (
        id TEXT PRIMARY KEY, -- "{user_id}#{entry_id}"
        embedding_json TEXT NOT NULL,
        metadata_json TEXT NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteIndex) Upsert(id string, embedding []float32, metadata map[string]string) error {
	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO journal_vectors (id, embedding_json, metadata_json) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET embedding_json = excluded.embedding_json, metadata_json = excluded.metadata_json",
		id, string(embeddingJSON), string(metadataJSON))
	if err != nil {
		return fmt.Errorf("failed to upsert vector %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteIndex) Query(embedding []float32, topK int, filter map[string]string) ([]Match, error) {
	rows, err := s.db.Query("SELECT id, embedding_json, metadata_json FROM journal_vectors")
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var id, embeddingJSON, metadataJSON string
		if err := rows.Scan(&id, &embeddingJSON, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}

		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			log.Printf("Warning: bad metadata for vector %s: %v. Skipping.", id, err)
			continue
		}
		if !matchesFilter(metadata, filter) {
			continue
		}

		var stored []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &stored); err != nil {
			log.Printf("Warning: bad embedding for vector %s: %v. Skipping.", id, err)
			continue
		}

		score, err := CosineSimilarity(embedding, stored)
		if err != nil {
			log.Printf("Warning: similarity failed for vector %s: %v. Skipping.", id, err)
			continue
		}
		matches = append(matches, Match{ID: id, Score: score, Metadata: metadata})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating vectors: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *SQLiteIndex) Delete(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.Exec("DELETE FROM journal_vectors WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	return nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, want := range filter {
		if metadata[k] != want {
			return false
		}
	}
	return true
}
