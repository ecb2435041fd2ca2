package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"travelbook/internal/models"

	"github.com/google/uuid"
)

// MemoryBookingRepository is an in-memory implementation of BookingRepository.
type MemoryBookingRepository struct {
	bookings map[string]models.Booking
	mu       sync.RWMutex
}

// NewMemoryBookingRepository creates a new instance of MemoryBookingRepository.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[string]models.Booking),
	}
}

// Create adds a new booking.
func (r *MemoryBookingRepository) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now()
	booking.CreatedAt, booking.UpdatedAt = now, now
	r.bookings[booking.ID] = *booking
	return nil
}

// GetByUser returns the bookings of a user, newest first.
func (r *MemoryBookingRepository) GetByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// GetForUser returns a booking only if it belongs to userID.
func (r *MemoryBookingRepository) GetForUser(_ context.Context, id, userID string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok || b.UserID != userID {
		return nil, fmt.Errorf("booking with ID %s not found: %w", id, ErrNotFound)
	}
	return &b, nil
}

// Update modifies an existing booking owned by booking.UserID.
func (r *MemoryBookingRepository) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok || stored.UserID != booking.UserID {
		return fmt.Errorf("booking with ID %s not found for update: %w", booking.ID, ErrNotFound)
	}
	stored.TravelDate = booking.TravelDate
	stored.TravelerDetails = booking.TravelerDetails
	stored.TotalTravelers = booking.TotalTravelers
	stored.Status = booking.Status
	stored.UpdatedAt = time.Now()
	r.bookings[booking.ID] = stored

	booking.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a booking owned by userID.
func (r *MemoryBookingRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.UserID != userID {
		return fmt.Errorf("booking with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.bookings, id)
	return nil
}
