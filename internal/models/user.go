package models

import (
	"strings"
	"time"
)

// PasswordHasher is the hashing capability User needs to set a password.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// User represents a registered traveller.
type User struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	FullName         string     `json:"fullName" gorm:"type:varchar(100);not null" bson:"full_name" validate:"required,min=5,max=100"`
	Email            string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" bson:"email" validate:"required,email"`
	PasswordHash     string     `json:"-" gorm:"type:varchar(255);not null" bson:"password_hash"`
	PhoneNumber      string     `json:"phoneNumber" gorm:"type:varchar(10);not null" bson:"phone_number" validate:"required,phone_in"`
	ResetTokenHash   *string    `json:"-" gorm:"index;type:varchar(64)" bson:"reset_token_hash"`
	ResetTokenExpiry *time.Time `json:"-" bson:"reset_token_expiry"`
	CreatedAt        time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" bson:"updated_at"`

	passwordChanged bool
}

// Normalize trims and case-folds the fields that are stored normalised.
func (u *User) Normalize() {
	u.FullName = strings.ToLower(strings.TrimSpace(u.FullName))
	u.Email = NormalizeEmail(u.Email)
	u.PhoneNumber = strings.TrimSpace(u.PhoneNumber)
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes plain and marks the password as changed, so the next
// save writes the new hash. Saving without calling it never touches the hash.
func (u *User) SetPassword(plain string, hasher PasswordHasher) error {
	hashed, err := hasher.Hash(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hashed
	u.passwordChanged = true
	return nil
}

// PasswordChanged reports whether SetPassword was called since the last save.
func (u *User) PasswordChanged() bool { return u.passwordChanged }

// MarkSaved clears change tracking. Repositories call it after a write.
func (u *User) MarkSaved() { u.passwordChanged = false }

// SetResetToken records an outstanding reset. Hash and expiry are always set together.
func (u *User) SetResetToken(hash string, expiry time.Time) {
	u.ResetTokenHash = &hash
	u.ResetTokenExpiry = &expiry
}

// ClearResetToken removes any outstanding reset.
func (u *User) ClearResetToken() {
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
}

// HasResetToken reports whether a reset is outstanding, expired or not.
func (u *User) HasResetToken() bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpiry != nil
}

// Profile returns the public view of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

// UserProfile is what the API returns about a user. It never carries secrets.
type UserProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}
