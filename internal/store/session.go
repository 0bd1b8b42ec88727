package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session records statistics for one run of the pipeline.
type Session struct {
	ID        string     `json:"id"`
	Mode      string     `json:"mode"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Strokes   int        `json:"strokes"`
}

// SessionRepository handles session statistics storage.
type SessionRepository struct {
	store *Store
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Begin records the start of a session and returns its ID.
func (r *SessionRepository) Begin(mode string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.store.db.Exec(
		"INSERT INTO sessions (id, mode, started_at) VALUES (?, ?, ?)",
		id, mode, startedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to begin session: %w", err)
	}
	return id, nil
}

// End records the end of a session along with its final stroke count.
func (r *SessionRepository) End(id string, endedAt time.Time, strokes int) error {
	result, err := r.store.db.Exec(
		"UPDATE sessions SET ended_at = ?, strokes = ? WHERE id = ?",
		endedAt.UTC(), strokes, id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	s := &Session{}
	err := r.store.db.QueryRow(
		"SELECT id, mode, started_at, ended_at, strokes FROM sessions WHERE id = ?", id,
	).Scan(&s.ID, &s.Mode, &s.StartedAt, &s.EndedAt, &s.Strokes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// Recent returns up to limit sessions, newest first.
func (r *SessionRepository) Recent(limit int) ([]*Session, error) {
	rows, err := r.store.db.Query(
		"SELECT id, mode, started_at, ended_at, strokes FROM sessions ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		if err := rows.Scan(&s.ID, &s.Mode, &s.StartedAt, &s.EndedAt, &s.Strokes); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
