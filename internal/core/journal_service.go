package core

import (
	"context"
	"fmt"
	"log"

	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/vector"
)

// DocumentEmbedder embeds journal content for indexing (document task
// type, distinct from the query mode used at search time).
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

// JournalService keeps the relational row and its vector twin in step.
// The relational store is the source of truth; vector writes are
// best-effort and never fail the user-facing operation.
type JournalService struct {
	dbStore  *store.SQLiteStore
	index    vector.Index
	embedder DocumentEmbedder
}

func NewJournalService(db *store.SQLiteStore, index vector.Index, embedder DocumentEmbedder) *JournalService {
	return &JournalService{
		dbStore:  db,
		index:    index,
		embedder: embedder,
	}
}

func (s *JournalService) Create(ctx context.Context, userID, date, content string) (*store.JournalEntry, error) {
	entry := &store.JournalEntry{
		UserID:  userID,
		Date:    date,
		Content: content,
	}
	if err := s.dbStore.CreateJournalEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	// Index for semantic search. The entry is already durable; an indexing
	// failure is logged and the entry simply won't surface semantically.
	embedding, err := s.embedder.EmbedDocument(ctx, content)
	if err != nil {
		log.Printf("[JOURNAL] failed to embed entry %s: %v", entry.ID, err)
		return entry, nil
	}
	vectorID := vector.VectorID(userID, entry.ID)
	err = s.index.Upsert(vectorID, embedding, map[string]string{
		"user_id":  userID,
		"entry_id": entry.ID,
		"date":     date,
		"content":  content,
	})
	if err != nil {
		log.Printf("[JOURNAL] failed to index entry %s: %v", entry.ID, err)
	}

	return entry, nil
}

func (s *JournalService) List(userID string) ([]store.JournalEntry, error) {
	return s.dbStore.JournalEntries(userID)
}

func (s *JournalService) Get(entryID, userID string) (*store.JournalEntry, error) {
	return s.dbStore.GetJournalEntry(entryID, userID)
}

// Delete removes the entry and its vector twin. A vector delete failure
// after the relational delete succeeded is logged, not retried, and does
// not fail the operation.
func (s *JournalService) Delete(ctx context.Context, entryID, userID string) (bool, error) {
	deleted, err := s.dbStore.DeleteJournalEntry(entryID, userID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if err := s.index.Delete(vector.VectorID(userID, entryID)); err != nil {
		log.Printf("[JOURNAL] entry %s deleted but vector cleanup failed: %v", entryID, err)
	}
	return true, nil
}
