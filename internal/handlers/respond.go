package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"frendora/internal/apperrors"
)

// respondError renders the uniform error envelope
// {success, message, error, timestamp}. Uncategorized failures keep
// their detail only in development mode; production gets a generic
// message so internals never leak.
func respondError(c *fiber.Ctx, err error, dev bool) error {
	status := apperrors.StatusCode(err)
	message := messageFor(err)
	detail := err.Error()
	if status >= fiber.StatusInternalServerError && !dev {
		detail = "Something went wrong"
	}
	return c.Status(status).JSON(fiber.Map{
		"success":   false,
		"message":   message,
		"error":     detail,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "Validation Error"
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		return "Duplicate entry"
	case errors.Is(err, apperrors.ErrNotFound):
		return "Not found"
	case errors.Is(err, apperrors.ErrInvalidIdentifier):
		return "Invalid ID format"
	case errors.Is(err, apperrors.ErrMissingQuery):
		return "Query parameter is required"
	case errors.Is(err, apperrors.ErrIncorrectCredential):
		return "Authentication failed"
	case errors.Is(err, apperrors.ErrInvalidToken):
		return "Invalid or expired token"
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return "Access denied. No token provided."
	case errors.Is(err, apperrors.ErrUnsupportedMediaType):
		return "Unsupported media type"
	case errors.Is(err, apperrors.ErrTooManyFiles):
		return "Too many files"
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		return "File too large"
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return "Storage unavailable"
	default:
		return "Internal Server Error"
	}
}
