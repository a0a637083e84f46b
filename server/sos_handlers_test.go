package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitahq/vita/server/identity"
)

var testLocation = map[string]interface{}{"latitude": 28.6139, "longitude": 77.209, "address": "Connaught Place"}

func TestTriggerSOS(t *testing.T) {
	router, sender := setupTestServer(t)
	contacts := []string{"+15550001111", "pepper@avengers.com", "+15550002222", "happy@avengers.com"}
	user := createTestUser(t, "stark@avengers.com", contacts)

	rec := doRequest(router, "POST", "/api/sos", testLocation, map[string]string{"Authorization": bearerTokenFor(t, user)})
	require.Equal(t, http.StatusOK, rec.Code)

	payload, data := decodeResponse(t, rec)
	assert.True(t, payload.Success)
	assert.Equal(t, float64(len(contacts)), data["recipients"])
	assert.Equal(t, float64(len(contacts)), data["delivered"])

	assert.ElementsMatch(t, []string{"+15550001111", "+15550002222"}, sender.sms)
	assert.ElementsMatch(t, []string{"pepper@avengers.com", "happy@avengers.com"}, sender.emails)
}

func TestTriggerSOSWhenEveryProviderFails(t *testing.T) {
	router, sender := setupTestServer(t)
	sender.fail = true
	user := createTestUser(t, "stark@avengers.com", []string{"+15550001111", "pepper@avengers.com"})

	rec := doRequest(router, "POST", "/api/sos", testLocation, map[string]string{"Authorization": bearerTokenFor(t, user)})
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeResponse(t, rec)
	assert.Equal(t, float64(2), data["recipients"])
	assert.Equal(t, float64(0), data["delivered"])
	assert.Equal(t, 1, len(sender.sms))
	assert.Equal(t, 1, len(sender.emails))
}

func TestTriggerSOSWithoutContacts(t *testing.T) {
	router, sender := setupTestServer(t)
	user := createTestUser(t, "stark@avengers.com", nil)

	rec := doRequest(router, "POST", "/api/sos", testLocation, map[string]string{"Authorization": bearerTokenFor(t, user)})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, sender.sms)
	assert.Empty(t, sender.emails)
}

func TestTriggerSOSWithoutIdentity(t *testing.T) {
	router, sender := setupTestServer(t)
	createTestUser(t, "stark@avengers.com", []string{"+15550001111"})

	rec := doRequest(router, "POST", "/api/sos", testLocation, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "POST", "/api/sos", testLocation, map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "POST", "/api/sos", testLocation, nil,
		&http.Cookie{Name: identity.SessionCookieName, Value: "unknown-session"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Empty(t, sender.sms)
}

func TestTriggerSOSResolvesEveryCredential(t *testing.T) {
	router, _ := setupTestServer(t)
	createTestUser(t, "stark@avengers.com", []string{"+15550001111"})
	cookies := logInTestUser(t, router, "stark@avengers.com")

	var sessionID, token string
	for _, cookie := range cookies {
		switch cookie.Name {
		case identity.SessionCookieName:
			sessionID = cookie.Value
		case identity.TokenCookieName:
			token = cookie.Value
		}
	}
	require.NotEmpty(t, sessionID)
	require.NotEmpty(t, token)

	cases := []struct {
		description string
		cookie      string
	}{
		{"session cookie", identity.SessionCookieName + "=" + sessionID},
		{"token cookie", identity.TokenCookieName + "=" + token},
		{"secure prefixed session cookie", "__Secure-" + identity.SessionCookieName + "=" + sessionID},
		{"url encoded secure token cookie", "theme=dark; __Secure-" + identity.TokenCookieName + "=" + url.PathEscape(token)},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			rec := doRequest(router, "POST", "/api/sos", testLocation, map[string]string{"Cookie": c.cookie})
			require.Equal(t, http.StatusOK, rec.Code)

			_, data := decodeResponse(t, rec)
			assert.Equal(t, float64(1), data["recipients"])
			assert.Equal(t, float64(1), data["delivered"])
		})
	}
}

func TestTriggerSOSRejectsInvalidLocation(t *testing.T) {
	router, _ := setupTestServer(t)
	user := createTestUser(t, "stark@avengers.com", []string{"+15550001111"})
	headers := map[string]string{"Authorization": bearerTokenFor(t, user)}

	rec := doRequest(router, "POST", "/api/sos", map[string]interface{}{"latitude": 123.0, "longitude": 77.2}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, "POST", "/api/sos", nil, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
