package handlers

import (
	"errors"

	"travelbook/internal/apperrors"
	"travelbook/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindBadRequest:   fiber.StatusBadRequest,
	apperrors.KindUnauthorized: fiber.StatusUnauthorized,
	apperrors.KindForbidden:    fiber.StatusForbidden,
	apperrors.KindNotFound:     fiber.StatusNotFound,
	apperrors.KindConflict:     fiber.StatusConflict,
	apperrors.KindService:      fiber.StatusInternalServerError,
	apperrors.KindInternal:     fiber.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// writeError sends the public part of err. Causes of 5xx errors are logged
// and never returned to the client.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}

	status := StatusFor(appErr.Kind)
	if status >= fiber.StatusInternalServerError {
		logger.Error("request error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("kind", string(appErr.Kind)),
			zap.Error(appErr),
		)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["errors"] = appErr.Details
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized, please login to continue",
	})
}
