package handlers

import (
	"travelbook/internal/middleware"
	"travelbook/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BookingHandler handles HTTP requests for bookings. Every route requires a session.
type BookingHandler struct {
	service *services.BookingService
	guard   fiber.Handler
	logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *services.BookingService, guard fiber.Handler, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

// RegisterRoutes registers the booking routes with the Fiber router.
func (h *BookingHandler) RegisterRoutes(router fiber.Router) {
	bookingRoutes := router.Group("/booking", h.guard)
	bookingRoutes.Post("/", h.HandleCreateBooking)
	bookingRoutes.Get("/", h.HandleGetBookings)
	bookingRoutes.Patch("/:id", h.HandleUpdateBooking)
	bookingRoutes.Delete("/:id", h.HandleDeleteBooking)
}

// HandleCreateBooking books a package for the signed-in user.
func (h *BookingHandler) HandleCreateBooking(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}
	var req services.CreateBookingInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	booking, err := h.service.Create(c.UserContext(), user.ID, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// HandleGetBookings lists the signed-in user's bookings.
func (h *BookingHandler) HandleGetBookings(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}

	bookings, err := h.service.ListForUser(c.UserContext(), user.ID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"results":  len(bookings),
		"bookings": bookings,
	})
}

// HandleUpdateBooking changes one of the signed-in user's bookings.
func (h *BookingHandler) HandleUpdateBooking(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}
	var req services.UpdateBookingInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	booking, err := h.service.Update(c.UserContext(), user.ID, c.Params("id"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking updated successfully",
		"booking": booking,
	})
}

// HandleDeleteBooking cancels one of the signed-in user's bookings.
func (h *BookingHandler) HandleDeleteBooking(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return unauthorized(c)
	}

	if err := h.service.Delete(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking deleted successfully",
	})
}
