package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// SessionRepository stores the bearer token for the gallery API.
//
// Only the most recent session is current; Save replaces any earlier one.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save replaces the stored session with s, assigning an ID when it has none.
func (r *SessionRepository) Save(s *models.Session) error {
	if s.Token == "" {
		return &shared.ValidationError{Field: "token", Message: "is required"}
	}
	if s.ID == "" {
		s.ID = shared.GenerateID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	query := `
		INSERT INTO sessions (id, token, user_id, email, name, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query, s.ID, s.Token, s.User.ID, s.User.Email, s.User.Name, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return tx.Commit()
}

// Current returns the stored session or [shared.ErrNotAuthenticated].
func (r *SessionRepository) Current() (*models.Session, error) {
	query := `
		SELECT id, token, user_id, email, name, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s models.Session
	err := r.db.QueryRow(query).Scan(&s.ID, &s.Token, &s.User.ID, &s.User.Email, &s.User.Name, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &s, nil
}

// Clear removes every stored session.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}
