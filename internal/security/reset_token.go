package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// ResetTokenBytes is the entropy of a password reset token.
	ResetTokenBytes = 20
	// DefaultResetTokenTTL is how long a reset token stays valid.
	DefaultResetTokenTTL = 15 * time.Minute
)

// ResetTokenManager creates and checks single-use password reset tokens.
// Only the sha256 hash of a token is ever stored.
type ResetTokenManager struct {
	ttl time.Duration
	now func() time.Time
}

// NewResetTokenManager creates a manager whose tokens expire after ttl, or
// DefaultResetTokenTTL when ttl is not positive.
func NewResetTokenManager(ttl time.Duration) *ResetTokenManager {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokenManager{ttl: ttl, now: time.Now}
}

// WithClock replaces the clock used for expiry. Intended for tests.
func (m *ResetTokenManager) WithClock(now func() time.Time) *ResetTokenManager {
	m.now = now
	return m
}

// Generate returns a new plaintext token, its hash and its expiry.
// The plaintext is meant to be emailed once and then forgotten.
func (m *ResetTokenManager) Generate() (plain, hashed string, expiry time.Time, err error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}

	plain = hex.EncodeToString(buf)
	return plain, m.Hash(plain), m.now().Add(m.ttl), nil
}

// Hash returns the hex sha256 digest of a plaintext token.
func (m *ResetTokenManager) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Validate reports whether candidate hashes to storedHash and the token has not expired.
func (m *ResetTokenManager) Validate(candidate, storedHash string, storedExpiry time.Time) bool {
	if candidate == "" || storedHash == "" {
		return false
	}
	match := subtle.ConstantTimeCompare([]byte(m.Hash(candidate)), []byte(storedHash)) == 1
	return match && m.now().Before(storedExpiry)
}
