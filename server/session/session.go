package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

const DefaultTTL = 4 * time.Hour

// ErrNotFound is returned when a session doesn't exist or has expired
var ErrNotFound = errors.New("session not found")

// Store keeps track of logged in users by an opaque session id.
type Store interface {
	Create(ctx context.Context, userID uint) (string, error)
	UserID(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
	// DeleteForUser logs a user out everywhere
	DeleteForUser(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
