package models

import "time"

// Session is the server-side record backing a signed session token.
// TokenDigest is the SHA-256 of the token, see cryptox.TokenDigest.
type Session struct {
	UserID      int64
	Username    string
	TokenDigest string
	ExpiresAt   time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   int64
	Username string
}
