package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitahq/vita/server/auth/key"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	SetPasswordHashCost(bcrypt.MinCost)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("very-secure")
	require.Nil(t, err)

	assert.True(t, CheckPasswordHash("very-secure", hash))
	assert.False(t, CheckPasswordHash("not-it", hash))
}

func TestEncodeAndDecodeJWT(t *testing.T) {
	keyPair, err := key.GenerateKeyPair(2048)
	require.Nil(t, err)

	token, err := EncodeJWT(NewTokenClaims("7", "tony", "stark", "stark@avengers.com"), keyPair)
	require.Nil(t, err)

	claims, err := DecodeJWT(token, keyPair)
	require.Nil(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, uint(0), claims.TokenVersion)
	assert.Equal(t, "stark@avengers.com", claims.Email)
	assert.Equal(t, TokenIssuer, claims.Issuer)
}

func TestDecodeJWTWithWrongKey(t *testing.T) {
	keyPair, err := key.GenerateKeyPair(2048)
	require.Nil(t, err)
	otherKeyPair, err := key.GenerateKeyPair(2048)
	require.Nil(t, err)

	token, err := EncodeJWT(NewTokenClaims("7", "tony", "stark", "stark@avengers.com"), keyPair)
	require.Nil(t, err)

	_, err = DecodeJWT(token, otherKeyPair)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeExpiredJWT(t *testing.T) {
	keyPair, err := key.GenerateKeyPair(2048)
	require.Nil(t, err)

	claims := NewTokenClaims("7", "tony", "stark", "stark@avengers.com")
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()

	token, err := EncodeJWT(claims, keyPair)
	require.Nil(t, err)

	_, err = DecodeJWT(token, keyPair)
	assert.NotNil(t, err)
}

func TestDecodeJWTWithoutSubject(t *testing.T) {
	keyPair, err := key.GenerateKeyPair(2048)
	require.Nil(t, err)

	token, err := EncodeJWT(NewTokenClaims("", "tony", "stark", "stark@avengers.com"), keyPair)
	require.Nil(t, err)

	_, err = DecodeJWT(token, keyPair)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
