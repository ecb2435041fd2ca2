package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingsCollection = "bookings"

// MongoBookingRepository is a MongoDB implementation of BookingRepository.
type MongoBookingRepository struct {
	coll *mongo.Collection
}

// NewMongoBookingRepository creates a new instance of MongoBookingRepository.
func NewMongoBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{
		coll: db.Collection(bookingsCollection),
	}
}

// EnsureIndexes creates the per-user lookup index.
func (r *MongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt, booking.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByUser retrieves all bookings made by a user, newest first.
func (r *MongoBookingRepository) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for user %s: %w", userID, err)
	}
	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// GetForUser retrieves a booking only if it belongs to userID.
func (r *MongoBookingRepository) GetForUser(ctx context.Context, id, userID string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking by ID %s: %w", id, err)
	}
	return &booking, nil
}

// Update saves the mutable fields of a booking owned by booking.UserID.
func (r *MongoBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": booking.ID, "user_id": booking.UserID},
		bson.M{"$set": bson.M{
			"travel_date":      booking.TravelDate,
			"traveler_details": booking.TravelerDetails,
			"total_travelers":  booking.TotalTravelers,
			"status":           booking.Status,
			"updated_at":       booking.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking with ID %s not found for update: %w", booking.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a booking owned by userID.
func (r *MongoBookingRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("booking with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
