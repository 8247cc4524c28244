package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"frendora/internal/services"
)

// Context keys under which the verified identity is stored for
// downstream handlers.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
)

// AuthRequired gates a route on a valid bearer token. A request with no
// token at all is rejected with 403, a request with a token that fails
// verification with 401. Identity comes from the token's own claims; no
// persistence is consulted.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":   false,
				"message":   "Access denied. No token provided.",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":   false,
				"message":   "Invalid or expired token",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Name)

		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Anything else, including a malformed scheme, yields "".
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
