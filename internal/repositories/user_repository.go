package repositories

import (
	"context"

	"travelbook/internal/models"
)

// UserRepository defines the interface for user data access.
// Implementations must enforce email uniqueness at the storage layer and
// report violations as ErrDuplicateKey.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByResetTokenHash returns the user holding the given reset token hash,
	// whether or not the token has expired.
	GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	// Update saves the user. The password hash is written only when
	// user.PasswordChanged() is true.
	Update(ctx context.Context, user *models.User) error
}
