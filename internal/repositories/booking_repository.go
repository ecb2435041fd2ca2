package repositories

import (
	"context"

	"travelbook/internal/models"
)

// BookingRepository defines the interface for booking data access. Reads and
// writes of a single booking are always scoped to its owner.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id, userID string) error
}
