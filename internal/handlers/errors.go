package handlers

import (
	"errors"
	"log"

	"booktank/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps an application error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrMalformedRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuthentication):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAuthorization):
		return fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as {"message", "error"}. Internal failures are
// logged and never echoed to the client.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	var appErr *apperrors.Error
	switch {
	case status == fiber.StatusInternalServerError:
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   apperrors.ErrInfrastructure.Error(),
		})
	case errors.As(err, &appErr):
		return c.Status(status).JSON(fiber.Map{
			"message": appErr.Message,
			"error":   appErr.Kind.Error(),
		})
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

// ErrorHandler is installed as the Fiber error handler so errors returned by
// middleware and handlers share one response shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}
	return respondError(c, err)
}
