package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionTokenBytes is the entropy of a session token. 32 bytes keeps the
// token far beyond brute-force range for its 7-day lifetime.
const sessionTokenBytes = 32

// NewSessionToken returns an unguessable opaque token for the session cookie.
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
