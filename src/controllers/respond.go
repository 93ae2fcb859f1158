package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/services"
)

// currentUser returns the caller attached by the auth middleware.
func currentUser(c *fiber.Ctx) models.User {
	return c.Locals("user").(models.User)
}

// statusFor maps service error kinds to HTTP statuses. Ownership
// failures are 401, conflicts and state-machine violations are 400.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindForbidden:
		return fiber.StatusUnauthorized
	case services.KindInvalidOperation, services.KindConflict:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// fail renders a service error with its message, or a generic 500 for
// anything else. Persistence details never leak to the client.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		return c.Status(statusFor(svcErr.Kind)).JSON(lib.MessageResponse(svcErr.Message))
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
}
