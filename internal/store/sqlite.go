package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY, -- UUID
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS health_metrics (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        timestamp DATETIME NOT NULL,
        metric_type TEXT NOT NULL,
        value TEXT NOT NULL,
        unit TEXT,
        source TEXT DEFAULT 'manual',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    -- Append-only series, deduplicated per user by (timestamp, metric_type).
    CREATE UNIQUE INDEX IF NOT EXISTS idx_metrics_dedup
        ON health_metrics (user_id, timestamp, metric_type);

    CREATE TABLE IF NOT EXISTS journal_entries (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        date TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE external_user_id = ?", externalUserID).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(externalUserID, passwordHash string) (*User, error) {
	user := User{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		PasswordHash:   passwordHash,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := s.db.Exec("INSERT INTO users (id, external_user_id, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.ExternalUserID, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Health metric methods

// InsertHealthMetric stores one sample, ignoring duplicates on
// (user_id, timestamp, metric_type). Returns whether a row was inserted.
func (s *SQLiteStore) InsertHealthMetric(m *HealthMetric) (bool, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO health_metrics (id, user_id, timestamp, metric_type, value, unit, source, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.UserID, m.Timestamp, m.MetricType, m.Value, m.Unit, m.Source, m.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert health metric: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// MetricsInRange returns samples for the user within [from, to] ordered by
// timestamp ascending. An empty metricType matches all metrics.
func (s *SQLiteStore) MetricsInRange(userID, metricType string, from, to time.Time) ([]HealthMetric, error) {
	query := "SELECT id, user_id, timestamp, metric_type, value, unit, source, created_at FROM health_metrics WHERE user_id = ? AND timestamp >= ? AND timestamp <= ?"
	args := []interface{}{userID, from, to}
	if metricType != "" {
		query += " AND metric_type = ?"
		args = append(args, metricType)
	}
	query += " ORDER BY timestamp ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query health metrics: %w", err)
	}
	defer rows.Close()

	var metrics []HealthMetric
	for rows.Next() {
		var m HealthMetric
		if err := rows.Scan(&m.ID, &m.UserID, &m.Timestamp, &m.MetricType, &m.Value, &m.Unit, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan health metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Journal methods
func (s *SQLiteStore) CreateJournalEntry(entry *JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := s.db.Exec(
		"INSERT INTO journal_entries (id, user_id, date, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, entry.Date, entry.Content, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) JournalEntries(userID string) ([]JournalEntry, error) {
	rows, err := s.db.Query("SELECT id, user_id, date, content, created_at, updated_at FROM journal_entries WHERE user_id = ? ORDER BY date DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	return scanJournalRows(rows)
}

func (s *SQLiteStore) GetJournalEntry(entryID, userID string) (*JournalEntry, error) {
	var e JournalEntry
	err := s.db.QueryRow("SELECT id, user_id, date, content, created_at, updated_at FROM journal_entries WHERE id = ? AND user_id = ?", entryID, userID).
		Scan(&e.ID, &e.UserID, &e.Date, &e.Content, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return &e, nil
}

// DeleteJournalEntry removes the entry if it belongs to the user. Returns
// whether a row was deleted.
func (s *SQLiteStore) DeleteJournalEntry(entryID, userID string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM journal_entries WHERE id = ? AND user_id = ?", entryID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete journal entry: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// SearchJournalContent performs a case-insensitive substring search over the
// user's entry content, used as the keyword fallback behind semantic search.
func (s *SQLiteStore) SearchJournalContent(userID, substr string, limit int) ([]JournalEntry, error) {
	pattern := "%" + escapeLike(strings.ToLower(substr)) + "%"
	rows, err := s.db.Query(
		"SELECT id, user_id, date, content, created_at, updated_at FROM journal_entries WHERE user_id = ? AND LOWER(content) LIKE ? ESCAPE '\\' ORDER BY date DESC LIMIT ?",
		userID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search journal entries: %w", err)
	}
	defer rows.Close()

	return scanJournalRows(rows)
}

func scanJournalRows(rows *sql.Rows) ([]JournalEntry, error) {
	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Content, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
