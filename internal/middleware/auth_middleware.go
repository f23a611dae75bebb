package middleware

import (
	"log"
	"strings"

	"taskman/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Context keys under which the resolved identity is stored for handlers.
const (
	UserKey  = "user"
	TokenKey = "token"
)

// AuthRequired is a Fiber middleware that resolves the bearer token to a
// user. Every failure mode (missing header, wrong prefix, bad signature,
// expired token, revoked token, deleted user) answers with the same generic
// 401 so callers learn nothing about why authentication failed.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthenticated(c)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthenticated(c)
		}
		tokenString := parts[1]

		user, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("Authentication failed: %v", err)
			return unauthenticated(c)
		}

		// Store the resolved user and raw token so handlers don't fetch the
		// user again and logout knows which session to revoke.
		c.Locals(UserKey, user)
		c.Locals(TokenKey, tokenString)

		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Please authenticate",
	})
}
