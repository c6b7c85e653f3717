package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"budgetwise-go-be/auth"
)

// UserIDKey is where the authenticated user's id is stored in request locals.
const UserIDKey = "user_id"

// JwtAuth validates the Authorization header and stores the caller's user id
// in Locals for handlers to access.
func JwtAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization header format must be Bearer {token}"})
		}

		userID, err := auth.ExtractUserID(parts[1], secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token expired"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized or invalid token"})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
