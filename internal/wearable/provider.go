// Package wearable talks to the wearable-data provider. The real client
// follows the provider's token flow; a deterministic mock stands in for it
// during development and demos.
package wearable

import (
	"context"
	"time"
)

// Biomarker is one provider reading. Value stays textual end to end: some
// readings (blood pressure) are composite and only the analysis layer
// decides what to coerce.
type Biomarker struct {
	Type          string    `json:"type"`
	Value         string    `json:"value"`
	Unit          string    `json:"unit"`
	StartDateTime time.Time `json:"startDateTime"`
	Source        string    `json:"source"`
}

// Provider fetches biomarker telemetry for one user over a date range.
type Provider interface {
	Biomarkers(ctx context.Context, userID string, from, to time.Time) ([]Biomarker, error)
}
