package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors for every failure category the API can produce.
// Services and repositories wrap these with fmt.Errorf and %w; handlers
// map them back to HTTP statuses with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrMissingQuery         = errors.New("query parameter is required")
	ErrIncorrectCredential  = errors.New("incorrect credentials")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrUnauthenticated      = errors.New("access denied, no token provided")
	ErrUnsupportedMediaType = errors.New("only image and video files are allowed")
	ErrTooManyFiles         = errors.New("too many files")
	ErrPayloadTooLarge      = errors.New("file too large")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// StatusCode maps an error to the HTTP status of its category.
// Anything uncategorized is a 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidIdentifier),
		errors.Is(err, ErrMissingQuery),
		errors.Is(err, ErrUnsupportedMediaType):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrDuplicateEmail):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrIncorrectCredential):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusForbidden
	case errors.Is(err, ErrTooManyFiles), errors.Is(err, ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, ErrStorageUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
