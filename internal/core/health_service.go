// Package core wires the storage, embedding and provider layers into the
// services the API handlers call.
package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/wearable"
)

const syncLookbackDays = 30

// HealthDataService syncs wearable biomarkers into the local store and
// serves range reads for the API.
type HealthDataService struct {
	dbStore  *store.SQLiteStore
	provider wearable.Provider
}

func NewHealthDataService(db *store.SQLiteStore, provider wearable.Provider) *HealthDataService {
	return &HealthDataService{
		dbStore:  db,
		provider: provider,
	}
}

type SyncReport struct {
	Success      bool           `json:"success"`
	SyncedCount  int            `json:"synced_count"`
	TotalFetched int            `json:"total_fetched"`
	DateRange    map[string]any `json:"date_range"`
}

// Sync pulls the last 30 days of biomarkers and stores them. Duplicate
// samples are ignored by the store's dedup index; per-row failures are
// logged and skipped.
func (s *HealthDataService) Sync(ctx context.Context, userID string) (*SyncReport, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -syncLookbackDays)

	log.Printf("[SYNC] syncing health data for user %s", userID)

	biomarkers, err := s.provider.Biomarkers(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch biomarkers: %w", err)
	}

	synced := 0
	for _, b := range biomarkers {
		inserted, err := s.dbStore.InsertHealthMetric(&store.HealthMetric{
			UserID:     userID,
			Timestamp:  b.StartDateTime,
			MetricType: b.Type,
			Value:      b.Value,
			Unit:       b.Unit,
			Source:     b.Source,
		})
		if err != nil {
			log.Printf("[SYNC] error inserting biomarker %s@%s: %v", b.Type, b.StartDateTime, err)
			continue
		}
		if inserted {
			synced++
		}
	}

	log.Printf("[SYNC] synced %d/%d biomarkers for user %s", synced, len(biomarkers), userID)
	return &SyncReport{
		Success:      true,
		SyncedCount:  synced,
		TotalFetched: len(biomarkers),
		DateRange: map[string]any{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
	}, nil
}

// Metrics returns the user's samples for the trailing window, optionally
// filtered to one metric type (canonical name expected).
func (s *HealthDataService) Metrics(userID, metricType string, days int) ([]store.HealthMetric, error) {
	if days <= 0 {
		days = 7
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	return s.dbStore.MetricsInRange(userID, metricType, start, end)
}
