package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/vitahq/vita/server/auth/key"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer   = "vita"
	TokenLifetime = 24 * time.Hour
)

var (
	// ErrInvalidToken wraps every reason a token is rejected
	ErrInvalidToken = errors.New("invalid jwt")

	passwordHashCost = 12
)

type VitaTokenClaims struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	// TokenVersion must match the user's current version, bumping it revokes older tokens
	TokenVersion uint `json:"ver"`
	jwt.StandardClaims
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NewTokenClaims returns claims for 'subject' that expire after TokenLifetime.
func NewTokenClaims(subject, firstName, lastName, email string) VitaTokenClaims {
	now := time.Now()
	return VitaTokenClaims{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			Issuer:    TokenIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TokenLifetime).Unix(),
		},
	}
}

func EncodeJWT(claims VitaTokenClaims, keyPair *key.KeyPair) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod("RS256"), claims)
	token.Header["kid"] = keyPair.Kid

	tokenString, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func DecodeJWT(tokenString string, keyPair *key.KeyPair) (*VitaTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VitaTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return keyPair.PublicKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tokenClaims, ok := token.Claims.(*VitaTokenClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	if tokenClaims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return tokenClaims, nil
}

// SetPasswordHashCost overrides the bcrypt cost, tests use bcrypt.MinCost
// to keep user fixtures cheap.
func SetPasswordHashCost(cost int) {
	passwordHashCost = cost
}
