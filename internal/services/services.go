package services

import (
	"context"
	"errors"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/validation"

	"github.com/go-playground/validator/v10"
)

// Event types published by the services.
const (
	EventUserRegistered      = "user.registered"
	EventUserUpdated         = "user.updated"
	EventPasswordResetIssued = "user.password_reset_requested"
	EventPasswordReset       = "user.password_reset"
	EventPasswordChanged     = "user.password_changed"
	EventBookingCreated      = "booking.created"
	EventBookingUpdated      = "booking.updated"
	EventBookingDeleted      = "booking.deleted"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// TokenIssuer issues and verifies session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
	Lifetime() time.Duration
}

// ResetTokens generates and checks password reset tokens.
type ResetTokens interface {
	Generate() (plain, hashed string, expiry time.Time, err error)
	Hash(plain string) string
	Validate(candidate, storedHash string, storedExpiry time.Time) bool
}

// EventPublisher publishes domain events. Publishing is best effort; a
// failure is logged and never fails the operation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// validationError converts a validator failure into a BadRequest with per-field details.
func validationError(err error, message string) error {
	return apperrors.BadRequest(message).WithDetails(validation.Messages(err))
}

func hasRequiredFailure(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, e := range verrs {
		if e.Tag() == "required" {
			return true
		}
	}
	return false
}
