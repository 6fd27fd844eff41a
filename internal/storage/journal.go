package storage

import (
	"context"
	"fmt"
	"time"
)

// SyncRecord is one load or save attempt.
type SyncRecord struct {
	ID             int64     `json:"id"`
	Kind           string    `json:"kind"` // "load" or "save"
	State          string    `json:"state"`
	Message        string    `json:"message"`
	CollectionRows int       `json:"collectionRows"`
	DeckRows       int       `json:"deckRows"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// Journal records sync attempts.
type Journal struct {
	db *DB
}

// NewJournal creates a journal backed by db.
func NewJournal(db *DB) *Journal {
	return &Journal{db: db}
}

// RecordSync appends a record.
func (j *Journal) RecordSync(ctx context.Context, rec SyncRecord) error {
	_, err := j.db.conn.ExecContext(ctx, `
		INSERT INTO sync_history (kind, state, message, collection_rows, deck_rows, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Kind, rec.State, rec.Message, rec.CollectionRows, rec.DeckRows,
		rec.StartedAt.UTC(), rec.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}
	return nil
}

// RecentSyncs returns up to limit records, newest first.
func (j *Journal) RecentSyncs(ctx context.Context, limit int) ([]SyncRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.conn.QueryContext(ctx, `
		SELECT id, kind, state, message, collection_rows, deck_rows, started_at, finished_at
		FROM sync_history
		ORDER BY finished_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []SyncRecord{}
	for rows.Next() {
		var rec SyncRecord
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.State, &rec.Message,
			&rec.CollectionRows, &rec.DeckRows, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
