package models

import (
	"time"

	pkgErrors "github.com/pkg/errors"
)

type Session struct {
	ID        string    `gorm:"primarykey;size:64"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func CreateSession(id string, userID uint, expiresAt time.Time) error {
	err := db.Create(&Session{ID: id, UserID: userID, ExpiresAt: expiresAt.UTC()}).Error
	if err != nil {
		return pkgErrors.Wrap(err, "CreateSession")
	}

	return nil
}

// FindSession returns an unexpired session by its id
func FindSession(id string) (*Session, error) {
	session := Session{}
	err := db.Where("id = ? AND expires_at > ?", id, time.Now().UTC()).First(&session).Error
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func DeleteSession(id string) error {
	return db.Where("id = ?", id).Delete(&Session{}).Error
}

func DeleteSessionsByUserID(userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&Session{}).Error
}

// DeleteExpiredSessions removes every expired session & returns how many were removed
func DeleteExpiredSessions() (int64, error) {
	res := db.Where("expires_at <= ?", time.Now().UTC()).Delete(&Session{})
	if res.Error != nil {
		return 0, pkgErrors.Wrap(res.Error, "DeleteExpiredSessions")
	}

	return res.RowsAffected, nil
}
