package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	domain "github.com/taskflow/taskflow-api/domain/user"
	"github.com/taskflow/taskflow-api/modules/auth"
)

// stubAuthPort resolves every token to a fixed outcome.
type stubAuthPort struct {
	claims *domain.Claims
	err    error
}

func (s *stubAuthPort) ValidateToken(context.Context, string) (*domain.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func (s *stubAuthPort) GetUser(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

// protectedApp guards a projects route with the middleware. The handler
// echoes the caller id taken from the request locals, so a 200 response
// proves the claims made it past the middleware.
func protectedApp(port auth.AuthPort) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(port))
	app.Get("/api/projects", func(c *fiber.Ctx) error {
		claims, ok := c.Locals(UserContextKey).(*domain.Claims)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"caller": claims.UserID})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	alice := &domain.Claims{UserID: "user-alice", Email: "alice@taskflow.dev"}

	tests := []struct {
		name       string
		header     string
		port       *stubAuthPort
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no authorization header",
			header:     "",
			port:       &stubAuthPort{claims: alice},
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Authorization header is required",
		},
		{
			name:       "basic auth instead of bearer",
			header:     "Basic YWxpY2U6aHVudGVyMg==",
			port:       &stubAuthPort{claims: alice},
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "bearer scheme without a token",
			header:     "Bearer",
			port:       &stubAuthPort{claims: alice},
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "rejected token",
			header:     "Bearer expired.taskflow.jwt",
			port:       &stubAuthPort{err: errors.New("token has invalid claims")},
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "Invalid or expired token",
		},
		{
			name:       "valid token reaches the handler",
			header:     "Bearer good.taskflow.jwt",
			port:       &stubAuthPort{claims: alice},
			wantStatus: fiber.StatusOK,
			wantBody:   `"caller":"user-alice"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := protectedApp(tt.port)

			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("reading body: %v", err)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %q", body, tt.wantBody)
			}
		})
	}
}
