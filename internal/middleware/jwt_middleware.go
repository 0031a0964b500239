package middleware

import (
	"strings"

	"juicebox/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserIDKey is the Locals key holding the authenticated user's id.
const UserIDKey = "user_id"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		userID, msg := authenticate(authService, logger, authHeader)
		if msg != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": msg,
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// AuthOptional resolves the caller when a token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func AuthOptional(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		userID, msg := authenticate(authService, logger, authHeader)
		if msg != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": msg,
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// CallerID returns the authenticated user's id, or 0 for anonymous requests.
func CallerID(c *fiber.Ctx) uint {
	id, _ := c.Locals(UserIDKey).(uint)
	return id
}

func authenticate(authService *services.AuthService, logger *zap.Logger, authHeader string) (uint, string) {
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return 0, "Authorization header format must be 'Bearer <token>'"
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		logger.Debug("JWT validation failed", zap.Error(err))
		return 0, "Invalid or expired token"
	}

	userID, err := services.UserIDFromClaims(claims)
	if err != nil {
		return 0, "Invalid or expired token"
	}
	return userID, ""
}
