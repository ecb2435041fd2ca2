package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is the only error Verify returns. Callers must not try to
// tell a bad signature from an expired token.
var ErrInvalidToken = errors.New("invalid token")

type sessionClaims struct {
	ID string `json:"id"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies HS256 session tokens carrying a user id.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// NewTokenIssuer creates a TokenIssuer. The secret is copied and never exposed.
func NewTokenIssuer(secret string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
		// expiry is checked against the issuer's clock in Verify
		parser: &jwt.Parser{
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
			SkipClaimsValidation: true,
		},
	}
}

// WithClock replaces the clock used for iat/exp. Intended for tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Lifetime is the configured validity window of issued tokens.
func (i *TokenIssuer) Lifetime() time.Duration { return i.lifetime }

// Issue returns a signed token for userID that expires after the configured lifetime.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := sessionClaims{
		ID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(i.lifetime).Unix(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns the embedded user id.
func (i *TokenIssuer) Verify(token string) (string, error) {
	var claims sessionClaims
	parsed, err := i.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if !claims.VerifyExpiresAt(i.now().Unix(), true) || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
