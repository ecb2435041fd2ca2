package repositories

import (
	"context"
	"errors"
	"fmt"

	"travelbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookingRepository is a GORM implementation of BookingRepository.
type GORMBookingRepository struct {
	db *gorm.DB
}

// NewGORMBookingRepository creates a new instance of GORMBookingRepository.
func NewGORMBookingRepository(db *gorm.DB) *GORMBookingRepository {
	return &GORMBookingRepository{
		db: db,
	}
}

// Create creates a new booking in the database.
func (r *GORMBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByUser retrieves all bookings made by a user, newest first.
func (r *GORMBookingRepository) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to get bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

// GetForUser retrieves a booking only if it belongs to userID.
func (r *GORMBookingRepository) GetForUser(ctx context.Context, id, userID string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking by ID %s: %w", id, err)
	}
	return &booking, nil
}

// Update saves the mutable fields of a booking owned by booking.UserID.
func (r *GORMBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND user_id = ?", booking.ID, booking.UserID).
		Select("travel_date", "traveler_details", "total_travelers", "status", "updated_at").
		Updates(booking)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("booking with ID %s not found for update: %w", booking.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a booking owned by userID.
func (r *GORMBookingRepository) Delete(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Booking{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("booking with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
