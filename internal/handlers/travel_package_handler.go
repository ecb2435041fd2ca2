package handlers

import (
	"travelbook/internal/models"
	"travelbook/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TravelPackageHandler handles HTTP requests for travel packages.
type TravelPackageHandler struct {
	service *services.TravelPackageService
	guard   fiber.Handler
	logger  *zap.Logger
}

// NewTravelPackageHandler creates a new TravelPackageHandler.
func NewTravelPackageHandler(service *services.TravelPackageService, guard fiber.Handler, logger *zap.Logger) *TravelPackageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TravelPackageHandler{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

// RegisterRoutes registers the travel package routes with the Fiber router.
func (h *TravelPackageHandler) RegisterRoutes(router fiber.Router) {
	packageRoutes := router.Group("/travelPackage")
	packageRoutes.Post("/create", h.guard, h.HandleCreatePackage)
	packageRoutes.Get("/", h.HandleGetPackages)
	packageRoutes.Get("/:id", h.HandleGetPackageByID)
}

// HandleCreatePackage adds a package to the catalog.
func (h *TravelPackageHandler) HandleCreatePackage(c *fiber.Ctx) error {
	var pkg models.TravelPackage
	if err := c.BodyParser(&pkg); err != nil {
		return badBody(c)
	}

	created, err := h.service.Create(c.UserContext(), &pkg)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "Package created successfully",
		"travelPackage": created,
	})
}

// HandleGetPackages lists the catalog.
func (h *TravelPackageHandler) HandleGetPackages(c *fiber.Ctx) error {
	pkgs, err := h.service.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"results":        len(pkgs),
		"travelPackages": pkgs,
	})
}

// HandleGetPackageByID returns one package.
func (h *TravelPackageHandler) HandleGetPackageByID(c *fiber.Ctx) error {
	pkg, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"travelPackage": pkg,
	})
}
