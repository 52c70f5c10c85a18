package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRevoked  = errors.New("session revoked")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionMismatch = errors.New("session token mismatch")
)

// Session is one issued refresh token. ID is the token's JTI; only the HMAC
// hash of the raw token is ever stored.
type Session struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *string
	CreatedAt  time.Time
}

func (s Session) Check(tokenHash string, now time.Time) error {
	if s.TokenHash != tokenHash {
		return ErrSessionMismatch
	}

	if s.RevokedAt != nil {
		return ErrSessionRevoked
	}

	if now.After(s.ExpiresAt) {
		return ErrSessionExpired
	}

	return nil
}

type SessionStore interface {
	Save(ctx context.Context, s Session) error
	// Rotate atomically revokes the session with oldID and records next in its
	// place, but only if check passes on the stored session.
	Rotate(ctx context.Context, oldID string, check func(Session) error, next Session) error
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
