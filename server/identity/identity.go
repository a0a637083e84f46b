package identity

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vitahq/vita/server/auth"
	"github.com/vitahq/vita/server/auth/key"
	"github.com/vitahq/vita/server/logger"
	"github.com/vitahq/vita/server/models"
	"github.com/vitahq/vita/server/session"
	"gorm.io/gorm"
)

const (
	SessionCookieName = "vita_session"
	TokenCookieName   = "vita_token"

	securePrefix = "__Secure-"
)

var (
	// ErrNoIdentity means none of the resolvers could identify the caller
	ErrNoIdentity = errors.New("unable to resolve identity")

	// errNoCredential is returned by a resolver when the request doesn't
	// carry the credential it looks for
	errNoCredential = errors.New("no credential provided")

	// errRevokedToken means the token predates the user's last password change
	errRevokedToken = errors.New("token has been revoked")

	logg = logger.NewLogger()
)

// Identity is the authenticated user behind a request
type Identity struct {
	UserID uint
	Email  string
	Name   string
	// Source names the resolver that identified the user
	Source string
}

// Resolver tries to identify the caller of 'r'
type Resolver struct {
	Name    string
	Resolve func(r *http.Request) (*Identity, error)
}

// Chain tries each resolver in order, the first one to succeed wins
type Chain []Resolver

// NewChain returns the default chain: session lookup, then token decode,
// then a manual decode of the raw cookie header.
func NewChain(store session.Store, keyPair *key.KeyPair) Chain {
	return Chain{
		SessionResolver(store),
		TokenResolver(keyPair),
		RawCookieResolver(store, keyPair),
	}
}

// Resolve returns ErrNoIdentity when every resolver rejects the caller. If a
// resolver failed for any other reason (db or session store outage) and no
// later one succeeded, that error is returned instead.
func (chain Chain) Resolve(r *http.Request) (*Identity, error) {
	var failure error

	for _, resolver := range chain {
		identity, err := resolver.Resolve(r)
		if err == nil && identity != nil {
			identity.Source = resolver.Name
			return identity, nil
		}

		if err == nil || errors.Is(err, errNoCredential) {
			continue
		}

		if isRejection(err) {
			logg.Debugf("[identity] %v resolver rejected credential: %v", resolver.Name, err)
			continue
		}

		logg.Errorf("[identity] %v resolver failed: %v", resolver.Name, err)
		if failure == nil {
			failure = fmt.Errorf("%v resolver: %w", resolver.Name, err)
		}
	}

	if failure != nil {
		return nil, failure
	}

	return nil, ErrNoIdentity
}

// SessionResolver looks the session cookie up in the session store
func SessionResolver(store session.Store) Resolver {
	return Resolver{
		Name: "session",
		Resolve: func(r *http.Request) (*Identity, error) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return nil, errNoCredential
			}

			return identityFromSession(r, store, cookie.Value)
		},
	}
}

// TokenResolver decodes a JWT from the Authorization header, falling
// back to the token cookie
func TokenResolver(keyPair *key.KeyPair) Resolver {
	return Resolver{
		Name: "token",
		Resolve: func(r *http.Request) (*Identity, error) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				if cookie, err := r.Cookie(TokenCookieName); err == nil {
					token = cookie.Value
				}
			}

			if token == "" {
				return nil, errNoCredential
			}

			return identityFromToken(keyPair, token)
		},
	}
}

// RawCookieResolver parses the Cookie header by hand. It picks up cookies
// the standard parser drops (quoted or url-encoded values) and the
// "__Secure-" prefixed names set behind TLS terminating proxies.
func RawCookieResolver(store session.Store, keyPair *key.KeyPair) Resolver {
	return Resolver{
		Name: "raw-cookie",
		Resolve: func(r *http.Request) (*Identity, error) {
			cookies := parseRawCookies(r.Header.Values("Cookie"))
			if len(cookies) == 0 {
				return nil, errNoCredential
			}

			// any failure other than a rejected credential is reported
			var failure error
			record := func(err error) {
				if failure == nil && !isRejection(err) {
					failure = err
				}
			}

			for _, name := range []string{securePrefix + TokenCookieName, TokenCookieName} {
				if value := cookies[name]; value != "" {
					identity, err := identityFromToken(keyPair, value)
					if err == nil {
						return identity, nil
					}
					record(err)
				}
			}

			for _, name := range []string{securePrefix + SessionCookieName, SessionCookieName} {
				if value := cookies[name]; value != "" {
					identity, err := identityFromSession(r, store, value)
					if err == nil {
						return identity, nil
					}
					record(err)
				}
			}

			if failure != nil {
				return nil, failure
			}

			return nil, errNoCredential
		},
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func identityFromSession(r *http.Request, store session.Store, sessionID string) (*Identity, error) {
	userID, err := store.UserID(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}

	user, err := findUser(userID)
	if err != nil {
		return nil, err
	}

	return identityOf(user), nil
}

func identityFromToken(keyPair *key.KeyPair, token string) (*Identity, error) {
	claims, err := auth.DecodeJWT(token, keyPair)
	if err != nil {
		return nil, err
	}

	// validate that the user account still exists
	user, err := findUser(claims.Subject)
	if err != nil {
		return nil, err
	}

	if claims.TokenVersion != user.TokenVersion {
		return nil, errRevokedToken
	}

	return identityOf(user), nil
}

func findUser(userID interface{}) (*models.User, error) {
	user, err := models.FindUserBy("id", userID)
	if err != nil {
		return nil, fmt.Errorf("user %v: %w", userID, err)
	}

	return user, nil
}

func identityOf(user *models.User) *Identity {
	return &Identity{UserID: user.ID, Email: user.Email, Name: user.FullName()}
}

// isRejection reports whether 'err' means the credential itself is bad,
// as opposed to a failure looking it up
func isRejection(err error) bool {
	return errors.Is(err, errNoCredential) ||
		errors.Is(err, errRevokedToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, session.ErrNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}

func bearerToken(authHeaderValue string) string {
	authHeaderList := strings.SplitN(authHeaderValue, "Bearer ", 2)
	if len(authHeaderList) < 2 {
		return ""
	}

	return strings.TrimSpace(authHeaderList[1])
}

// parseRawCookies splits "a=1; b=2" style headers into a map, unquoting
// & url-decoding values. The first occurrence of a name wins.
func parseRawCookies(headers []string) map[string]string {
	cookies := make(map[string]string)

	for _, header := range headers {
		for _, part := range strings.Split(header, ";") {
			name, value, found := strings.Cut(strings.TrimSpace(part), "=")
			if !found || name == "" {
				continue
			}

			value = strings.Trim(strings.TrimSpace(value), `"`)
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}

			if _, exists := cookies[name]; !exists {
				cookies[name] = value
			}
		}
	}

	return cookies
}
