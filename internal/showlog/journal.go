package showlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entry kinds.
const (
	KindCueLive     = "cue_live"
	KindStopAll     = "stop_all"
	KindOverlayText = "overlay_text"
	KindRemote      = "remote"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// ErrKindRequired is returned by Record for entries without a kind.
var ErrKindRequired = errors.New("showlog: entry kind is required")

// Entry is one row of the show journal.
type Entry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	CueID     string    `json:"cue_id,omitempty"`
	CueName   string    `json:"cue_name,omitempty"`
	Source    string    `json:"source,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal stores show events in SQLite.
//
// Thread Safety: safe for concurrent use (database/sql pools connections).
type Journal struct {
	db *sql.DB
}

// NewJournal creates a journal backed by db. The show_events table must
// already exist (see the migrations package).
func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts one entry. A zero CreatedAt is stamped with the current
// UTC time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.Kind == "" {
		return ErrKindRequired
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO show_events (kind, cue_id, cue_name, source, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Kind, e.CueID, e.CueName, e.Source, e.Detail,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting show event: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Limits outside
// 1..500 fall back to 50 or are clamped to 500.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, cue_id, cue_name, source, detail, created_at
		 FROM show_events
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying show events: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.CueID, &e.CueName, &e.Source, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning show event: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating show events: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than olderThan and returns how many went.
func (j *Journal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := j.db.ExecContext(ctx, "DELETE FROM show_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting show events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
