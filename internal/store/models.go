package store

import "time"

type User struct {
	ID             string    `json:"id"` // UUID
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

// HealthMetric is one wearable sample. Value is stored as TEXT because some
// readings are composite (e.g. "120/80"); consumers coerce to numeric and
// drop what fails.
type HealthMetric struct {
	ID         string    `json:"id"` // UUID
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
	MetricType string    `json:"metric_type"`
	Value      string    `json:"value"`
	Unit       string    `json:"unit"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}

type JournalEntry struct {
	ID        string    `json:"id"` // UUID
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // ISO date (YYYY-MM-DD)
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
