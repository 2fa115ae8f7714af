package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps a domain error, which crosses the service container as
// a message, to an HTTP status and a client-safe body. Not-found and
// not-owned are already merged by the services, so nothing here can reveal
// whether a resource exists for a different owner.
func statusForError(err error) (int, ErrorResponse) {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "not found"):
		return fiber.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: firstSentence(msg),
		}
	case strings.Contains(msg, "don't have access"):
		return fiber.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have access to this project",
		}
	case strings.Contains(msg, "must not be blank"):
		return fiber.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Title, if provided, must not be blank",
		}
	case strings.Contains(msg, "already exists"):
		return fiber.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		}
	case strings.Contains(msg, "invalid email or password"):
		return fiber.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		}
	case strings.Contains(msg, "invalid email format"),
		strings.Contains(msg, "password must be"):
		return fiber.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: firstSentence(msg),
		}
	default:
		return fiber.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}
}

// handleServiceError writes the mapped response for a service call failure.
func handleServiceError(c *fiber.Ctx, err error) error {
	status, body := statusForError(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[api] Internal error: %v", err)
	}
	return c.Status(status).JSON(body)
}

// firstSentence trims transport wrapping like "request failed: ..." down to
// the underlying message's tail segment.
func firstSentence(msg string) string {
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		msg = msg[idx+2:]
	}
	if msg == "" {
		return "Request failed"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
