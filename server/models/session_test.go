package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSessions(t *testing.T) {
	InitializeTestDb()
	user := createTestUser(t, "stark@avengers.com", "+12345678900")

	require.Nil(t, CreateSession("live", user.ID, time.Now().Add(time.Hour)))
	require.Nil(t, CreateSession("stale", user.ID, time.Now().Add(-time.Hour)))

	session, err := FindSession("live")
	require.Nil(t, err)
	assert.Equal(t, user.ID, session.UserID)

	_, err = FindSession("stale")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "expired sessions should not be found")

	removed, err := DeleteExpiredSessions()
	require.Nil(t, err)
	assert.Equal(t, int64(1), removed)

	require.Nil(t, DeleteSession("live"))
	_, err = FindSession("live")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteSessionsByUserID(t *testing.T) {
	InitializeTestDb()
	user := createTestUser(t, "stark@avengers.com", "+12345678900")

	require.Nil(t, CreateSession("one", user.ID, time.Now().Add(time.Hour)))
	require.Nil(t, CreateSession("two", user.ID, time.Now().Add(time.Hour)))

	require.Nil(t, DeleteSessionsByUserID(user.ID))

	_, err := FindSession("one")
	assert.NotNil(t, err)
	_, err = FindSession("two")
	assert.NotNil(t, err)
}
