package services_test

import (
	"context"
	"testing"
	"time"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"
	"travelbook/internal/services"
	"travelbook/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackage(destination string) *models.TravelPackage {
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	return &models.TravelPackage{
		Title:       "Discover " + destination,
		ImageURL:    "https://example.com/" + destination + ".jpg",
		Destination: destination,
		Price:       18000,
		Duration:    4,
		Ratings:     4,
		Description: "Four days of sightseeing",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 4),
		Itinerary:   []models.ItineraryDay{{Day: 1, Description: "Arrival and check-in"}},
		Inclusions:  []string{"Hotel", "Breakfast"},
		Exclusions:  []string{"Flights"},
	}
}

func TestTravelPackageService_Create(t *testing.T) {
	ctx := context.Background()
	service := services.NewTravelPackageService(repositories.NewMemoryTravelPackageRepository(), validation.New(), nil)

	created, err := service.Create(ctx, samplePackage("goa"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = service.Create(ctx, samplePackage("goa"))
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "goa", got.Destination)

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = service.Get(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestTravelPackageService_CreateValidation(t *testing.T) {
	service := services.NewTravelPackageService(repositories.NewMemoryTravelPackageRepository(), validation.New(), nil)

	missing := samplePackage("goa")
	missing.Title = ""
	_, err := service.Create(context.Background(), missing)
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "All fields are required")

	backwards := samplePackage("kerala")
	backwards.EndDate = backwards.StartDate.AddDate(0, 0, -1)
	_, err = service.Create(context.Background(), backwards)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	overRated := samplePackage("ladakh")
	overRated.Ratings = 6
	_, err = service.Create(context.Background(), overRated)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestTravelPackageService_ListEmpty(t *testing.T) {
	service := services.NewTravelPackageService(repositories.NewMemoryTravelPackageRepository(), validation.New(), nil)

	list, err := service.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

type bookingFixture struct {
	service  *services.BookingService
	events   *recordingPublisher
	pkg      *models.TravelPackage
	bookings *repositories.MemoryBookingRepository
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	packages := repositories.NewMemoryTravelPackageRepository()
	pkg := samplePackage("goa")
	require.NoError(t, packages.Create(context.Background(), pkg))

	bookings := repositories.NewMemoryBookingRepository()
	events := &recordingPublisher{}
	return bookingFixture{
		service:  services.NewBookingService(bookings, packages, validation.New(), events, nil),
		events:   events,
		pkg:      pkg,
		bookings: bookings,
	}
}

func bookingInput(packageID string) services.CreateBookingInput {
	return services.CreateBookingInput{
		TravelPackageID: packageID,
		TravelDate:      time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		TravelerDetails: []models.Traveler{{Name: "Jane", Age: 30, Gender: "female"}},
		TotalTravelers:  1,
	}
}

func TestBookingService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	booking, err := f.service.Create(ctx, "user-1", bookingInput(f.pkg.ID))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, "user-1", booking.UserID)
	assert.False(t, booking.BookingDate.IsZero())
	assert.Contains(t, f.events.Types(), services.EventBookingCreated)

	list, err := f.service.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Package)
	assert.Equal(t, f.pkg.Summary(), *list[0].Package)

	other, err := f.service.ListForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestBookingService_CreateFailures(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	in := bookingInput(f.pkg.ID)
	in.TravelerDetails = nil
	_, err := f.service.Create(ctx, "user-1", in)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, err = f.service.Create(ctx, "user-1", bookingInput("missing"))
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	bad := bookingInput(f.pkg.ID)
	bad.TravelerDetails = []models.Traveler{{Name: "Jane", Age: 30, Gender: "unknown"}}
	_, err = f.service.Create(ctx, "user-1", bad)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestBookingService_UpdateAndDeleteAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	booking, err := f.service.Create(ctx, "user-1", bookingInput(f.pkg.ID))
	require.NoError(t, err)

	two := 2
	travellers := []models.Traveler{
		{Name: "Jane", Age: 30, Gender: "female"},
		{Name: "John", Age: 31, Gender: "male"},
	}

	_, err = f.service.Update(ctx, "user-2", booking.ID, services.UpdateBookingInput{TotalTravelers: &two})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	updated, err := f.service.Update(ctx, "user-1", booking.ID, services.UpdateBookingInput{TotalTravelers: &two, TravelerDetails: travellers})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalTravelers)
	assert.Equal(t, booking.TravelDate, updated.TravelDate)

	zero := 0
	_, err = f.service.Update(ctx, "user-1", booking.ID, services.UpdateBookingInput{TotalTravelers: &zero})
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	err = f.service.Delete(ctx, "user-2", booking.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	require.NoError(t, f.service.Delete(ctx, "user-1", booking.ID))
	assert.Contains(t, f.events.Types(), services.EventBookingDeleted)

	err = f.service.Delete(ctx, "user-1", booking.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
