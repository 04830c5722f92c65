package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"profiledash/internal/common"
	"profiledash/internal/domain/model"
)

type SessionRepository interface {
	// Create inserts a session row. Runs inside the login transaction so the
	// delete-then-insert session replacement is atomic.
	Create(ctx context.Context, tx *sql.Tx, session *model.Session) error
	// DeleteByUserID removes every session owned by the user.
	DeleteByUserID(ctx context.Context, tx *sql.Tx, userID string) error
	// FindUserByToken resolves an unexpired session token to its user.
	// Returns common.ErrNotFound for unknown or expired tokens.
	FindUserByToken(ctx context.Context, token string) (*model.User, error)
	// DeleteByToken revokes a session. Idempotent; missing tokens are not an error.
	DeleteByToken(ctx context.Context, token string) error
}

type pgSessionRepository struct {
	db *sql.DB
}

func NewPgSessionRepository(db *sql.DB) SessionRepository {
	return &pgSessionRepository{db: db}
}

func (r *pgSessionRepository) Create(ctx context.Context, tx *sql.Tx, session *model.Session) error {
	query := `INSERT INTO user_sessions (token, user_id, expires_at)
	          VALUES ($1, $2, $3)`
	_, err := tx.ExecContext(ctx, query, session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) DeleteByUserID(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.DeleteByUserID: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) FindUserByToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT u.id, u.name, u.email, u.hashed_password, u.role, u.created_at, u.updated_at
	          FROM users u
	          JOIN user_sessions s ON u.id = s.user_id
	          WHERE s.token = $1 AND s.expires_at > now()`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSessionRepository.FindUserByToken: %w", err)
	}
	return user, nil
}

func (r *pgSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.DeleteByToken: %w", err)
	}
	return nil
}
