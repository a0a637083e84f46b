package session

import (
	"context"
	"errors"
	"time"

	"github.com/vitahq/vita/server/models"
	"gorm.io/gorm"
)

// DBStore persists sessions in the 'sessions' table
type DBStore struct {
	ttl time.Duration
}

func NewDBStore(ttl time.Duration) *DBStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DBStore{ttl: ttl}
}

func (s *DBStore) Create(ctx context.Context, userID uint) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	err = models.CreateSession(id, userID, time.Now().Add(s.ttl))
	if err != nil {
		return "", err
	}

	return id, nil
}

func (s *DBStore) UserID(ctx context.Context, sessionID string) (uint, error) {
	if sessionID == "" {
		return 0, ErrNotFound
	}

	session, err := models.FindSession(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	return session.UserID, nil
}

func (s *DBStore) Delete(ctx context.Context, sessionID string) error {
	return models.DeleteSession(sessionID)
}

func (s *DBStore) DeleteForUser(ctx context.Context, userID uint) error {
	return models.DeleteSessionsByUserID(userID)
}

func (s *DBStore) DeleteExpired(ctx context.Context) (int64, error) {
	return models.DeleteExpiredSessions()
}
