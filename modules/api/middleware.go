package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskflow/taskflow-api/modules/auth"
)

// UserContextKey is the key under which the caller's claims are stored in
// the Fiber context after the middleware has run.
const UserContextKey = "user"

// AuthMiddleware validates the bearer token on every request and attaches
// the resolved claims to the request context. Requests without a valid
// token never reach the handler.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(*errResp)
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *fiber.Ctx) (string, *ErrorResponse) {
	header := c.Get("Authorization")
	if header == "" {
		return "", &ErrorResponse{
			Error:   "unauthorized",
			Message: "Authorization header is required",
		}
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", &ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid authorization header format. Use: Bearer <token>",
		}
	}
	if token == "" {
		return "", &ErrorResponse{
			Error:   "unauthorized",
			Message: "Token is required",
		}
	}

	return token, nil
}
