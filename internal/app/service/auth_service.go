package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"profiledash/internal/common"
	"profiledash/internal/common/security"
	"profiledash/internal/domain/model"
	"profiledash/internal/domain/repository"

	"database/sql"
)

// AuthService owns the session lifecycle: login issues a token, logout
// revokes it, UserForToken resolves it. Sessions live in the user_sessions
// table and a user has at most one at a time.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	db          *sql.DB // For transactions
	sessionTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	db *sql.DB,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		db:          db,
		sessionTTL:  sessionTTL,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, expiresAt, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// createSession replaces any live session for the user with a fresh one.
// Delete and insert run in one transaction; the UNIQUE(user_id) constraint
// backstops two concurrent logins so exactly one row survives.
func (s *AuthService) createSession(ctx context.Context, userID string) (string, time.Time, error) {
	token, err := security.NewSessionToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	expiresAt := time.Now().Add(s.sessionTTL)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", time.Time{}, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.sessionRepo.DeleteByUserID(ctx, tx, userID); err != nil {
		return "", time.Time{}, err
	}
	session := &model.Session{Token: token, UserID: userID, ExpiresAt: expiresAt}
	if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
		return "", time.Time{}, err
	}

	if err := tx.Commit(); err != nil {
		return "", time.Time{}, common.Errorf("failed to commit transaction: %w", err)
	}
	return token, expiresAt, nil
}

// UserForToken resolves a session cookie value to its user. Read-only: there
// is no implicit renewal. Expired or unknown tokens yield ErrUnauthorized.
func (s *AuthService) UserForToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}
	user, err := s.sessionRepo.FindUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return user, nil
}

// Logout revokes the session behind the token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.DeleteByToken(ctx, token)
}
