package model

import (
	"time"
)

// Session is a server-side login session. The token is the opaque value
// stored in the session cookie; at most one session exists per user.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time.
// There is no sliding expiration; a session is never renewed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
