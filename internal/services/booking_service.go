package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const msgBookingNotFound = "Booking not found or you are not authorized"

// CreateBookingInput is the payload of a new booking.
type CreateBookingInput struct {
	TravelPackageID string            `json:"travelPackageId"`
	TravelDate      time.Time         `json:"travelDate"`
	TravelerDetails []models.Traveler `json:"travelerDetails"`
	TotalTravelers  int               `json:"totalTravelers"`
}

// UpdateBookingInput carries the booking fields to change. Nil fields are left untouched.
type UpdateBookingInput struct {
	TravelDate      *time.Time        `json:"travelDate"`
	TravelerDetails []models.Traveler `json:"travelerDetails"`
	TotalTravelers  *int              `json:"totalTravelers"`
}

// BookingService handles business logic related to bookings.
type BookingService struct {
	bookingRepo repositories.BookingRepository
	packageRepo repositories.TravelPackageRepository
	validate    *validator.Validate
	events      EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	packageRepo repositories.TravelPackageRepository,
	validate *validator.Validate,
	events EventPublisher,
	logger *zap.Logger,
) *BookingService {
	if events == nil {
		events = NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookingRepo: bookingRepo,
		packageRepo: packageRepo,
		validate:    validate,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// Create books a travel package for userID.
func (s *BookingService) Create(ctx context.Context, userID string, in CreateBookingInput) (*models.Booking, error) {
	packageID := strings.TrimSpace(in.TravelPackageID)
	if packageID == "" || in.TravelDate.IsZero() || len(in.TravelerDetails) == 0 || in.TotalTravelers == 0 {
		return nil, apperrors.BadRequest(msgAllFieldsRequired)
	}

	if _, err := s.packageRepo.GetByID(ctx, packageID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgPackageNotFound)
		}
		return nil, apperrors.Internal(err)
	}

	booking := &models.Booking{
		UserID:          userID,
		TravelPackageID: packageID,
		BookingDate:     s.now().UTC(),
		TravelDate:      in.TravelDate,
		TravelerDetails: in.TravelerDetails,
		TotalTravelers:  in.TotalTravelers,
		Status:          models.BookingStatusPending,
	}
	if err := s.validate.Struct(booking); err != nil {
		return nil, validationError(err, "Invalid booking details")
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("booking created", zap.String("booking_id", booking.ID), zap.String("user_id", userID))
	s.publish(ctx, EventBookingCreated, map[string]any{
		"bookingId":       booking.ID,
		"userId":          userID,
		"travelPackageId": packageID,
		"totalTravelers":  booking.TotalTravelers,
	})
	return booking, nil
}

// ListForUser returns the bookings of userID, each with a summary of its package.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.BookingWithPackage, error) {
	bookings, err := s.bookingRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ids := make([]string, 0, len(bookings))
	seen := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.TravelPackageID]; !ok {
			seen[b.TravelPackageID] = struct{}{}
			ids = append(ids, b.TravelPackageID)
		}
	}

	summaries := make(map[string]models.PackageSummary, len(ids))
	if len(ids) > 0 {
		pkgs, err := s.packageRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		for i := range pkgs {
			summaries[pkgs[i].ID] = pkgs[i].Summary()
		}
	}

	out := make([]models.BookingWithPackage, 0, len(bookings))
	for _, b := range bookings {
		item := models.BookingWithPackage{Booking: b}
		if summary, ok := summaries[b.TravelPackageID]; ok {
			item.Package = &summary
		}
		out = append(out, item)
	}
	return out, nil
}

// Update changes a booking owned by userID.
func (s *BookingService) Update(ctx context.Context, userID, bookingID string, in UpdateBookingInput) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgBookingNotFound)
		}
		return nil, apperrors.Internal(err)
	}

	if in.TravelDate != nil {
		booking.TravelDate = *in.TravelDate
	}
	if in.TravelerDetails != nil {
		booking.TravelerDetails = in.TravelerDetails
	}
	if in.TotalTravelers != nil {
		booking.TotalTravelers = *in.TotalTravelers
	}
	if err := s.validate.Struct(booking); err != nil {
		return nil, validationError(err, "Invalid booking details")
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgBookingNotFound)
		}
		return nil, apperrors.Internal(err)
	}

	s.publish(ctx, EventBookingUpdated, map[string]string{"bookingId": booking.ID, "userId": userID})
	return booking, nil
}

// Delete removes a booking owned by userID.
func (s *BookingService) Delete(ctx context.Context, userID, bookingID string) error {
	if err := s.bookingRepo.Delete(ctx, bookingID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(msgBookingNotFound)
		}
		return apperrors.Internal(err)
	}

	s.logger.Info("booking deleted", zap.String("booking_id", bookingID), zap.String("user_id", userID))
	s.publish(ctx, EventBookingDeleted, map[string]string{"bookingId": bookingID, "userId": userID})
	return nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, data any) {
	if err := s.events.Publish(ctx, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
