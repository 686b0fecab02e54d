package repositories

import (
	"context"
	"fmt"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/db"
)

// PostgresSessionStore persists each user's refresh token on their users row.
// The token column is the authoritative comparison target for rotation.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Record unconditionally overwrites the stored refresh token. Used on login.
func (s *PostgresSessionStore) Record(ctx context.Context, userID, token string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $2, updated_at = now()
        WHERE id = $1
    `, userID, token)
	if err != nil {
		return fmt.Errorf("record refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Rotate replaces the stored token only when the presented token matches the
// current value. The compare and the swap are a single conditional UPDATE, so
// concurrent rotations (or a racing logout) serialize on the row: exactly one
// wins and the rest observe a mismatch.
func (s *PostgresSessionStore) Rotate(ctx context.Context, userID, presented, next string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $3, updated_at = now()
        WHERE id = $1 AND refresh_token = $2
    `, userID, presented, next)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrTokenRevoked
	}

	return nil
}

// Clear removes the stored refresh token. Clearing an absent token (or an
// unknown user) is not an error.
func (s *PostgresSessionStore) Clear(ctx context.Context, userID string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = NULL, updated_at = now()
        WHERE id = $1
    `, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	return nil
}

var _ auth.SessionStore = (*PostgresSessionStore)(nil)
