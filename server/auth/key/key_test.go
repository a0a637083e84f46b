package key

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPairPemRoundTrip(t *testing.T) {
	keyPair, err := GenerateKeyPair(2048)
	require.Nil(t, err)

	pemStr, err := keyPair.PrivateKeyPem()
	require.Nil(t, err)

	// Values read from yaml/env usually carry escaped newlines
	parsed, err := NewKeyPairFromRSAPrivateKeyPem(strings.ReplaceAll(pemStr, "\n", `\n`))
	require.Nil(t, err)
	assert.Equal(t, keyPair.PublicKey.N, parsed.PublicKey.N)
}

func TestNewKeyPairFromInvalidPem(t *testing.T) {
	_, err := NewKeyPairFromRSAPrivateKeyPem("not a key")
	assert.NotNil(t, err)
}

func TestJWK(t *testing.T) {
	keyPair, err := GenerateKeyPair(2048)
	require.Nil(t, err)

	keyPairJWK, err := keyPair.JWK()
	require.Nil(t, err)
	assert.Equal(t, keyID, keyPairJWK.KeyID())

	publicKey, err := PublicKeyFromJWK(keyPairJWK)
	require.Nil(t, err)
	assert.Equal(t, keyPair.PublicKey.N, publicKey.N)

	jwks := ExportJWKAsJWKS(keyPairJWK)
	assert.Len(t, jwks.Keys, 1)
}
