package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"profiledash/internal/common"
	"profiledash/internal/common/security"
	"profiledash/internal/domain/model"
)

func seedUser(t *testing.T, repo *fakeUserRepo, id, email, password, role string) *model.User {
	t.Helper()
	hashed, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{ID: id, Name: id, Email: email, HashedPassword: hashed, Role: role}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func newAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo(users)
	svc := NewAuthService(users, sessions, openTxSource(t), 7*24*time.Hour)
	return svc, users, sessions
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthService(t)
	seedUser(t, users, "alice", "a@x.com", "p1", model.RoleUser)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr error
	}{
		{"valid credentials", LoginRequest{Email: "a@x.com", Password: "p1"}, nil},
		{"wrong password", LoginRequest{Email: "a@x.com", Password: "p2"}, common.ErrUnauthorized},
		{"unknown email", LoginRequest{Email: "nobody@x.com", Password: "p1"}, common.ErrUnauthorized},
		{"missing password", LoginRequest{Email: "a@x.com"}, common.ErrBadRequest},
		{"missing email", LoginRequest{Password: "p1"}, common.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() unexpected error: %v", err)
			}
			if result.Token == "" {
				t.Fatal("Login() returned empty token")
			}
			if result.User.HashedPassword != "" {
				t.Fatal("Login() leaked the stored credential")
			}
		})
	}
}

func TestLoginReplacesExistingSession(t *testing.T) {
	svc, users, sessions := newAuthService(t)
	seedUser(t, users, "alice", "a@x.com", "p1", model.RoleUser)
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if n := sessions.countForUser("alice"); n != 1 {
		t.Fatalf("expected exactly one session after relogin, got %d", n)
	}
	if _, err := svc.UserForToken(ctx, first.Token); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("old token still resolves, err = %v", err)
	}
	if _, err := svc.UserForToken(ctx, second.Token); err != nil {
		t.Fatalf("new token should resolve: %v", err)
	}
}

func TestUserForTokenExpired(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo(users)
	// Negative TTL: every session is born expired.
	svc := NewAuthService(users, sessions, openTxSource(t), -time.Hour)
	seedUser(t, users, "alice", "a@x.com", "p1", model.RoleUser)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.UserForToken(ctx, result.Token); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expired session resolved, err = %v", err)
	}
}

func TestLogout(t *testing.T) {
	svc, users, sessions := newAuthService(t)
	seedUser(t, users, "alice", "a@x.com", "p1", model.RoleUser)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if n := sessions.countForUser("alice"); n != 0 {
		t.Fatalf("session survived logout, count = %d", n)
	}
	// Idempotent: revoking an already-revoked token is not an error.
	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("logout with empty token: %v", err)
	}
}
