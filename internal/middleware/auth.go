package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"linkhive/internal/auth"
	"linkhive/internal/models"
)

// Credential kinds accepted by RequireUser.
const (
	ModeAPIKey = "api-key"
	ModeBearer = "bearer"
)

// APIKeyHeader carries the opaque long-lived API key.
const APIKeyHeader = "X-Api-Key"

// AuthMiddleware resolves request credentials into a request-scoped
// identity. Nothing it attaches outlives the request.
type AuthMiddleware struct {
	auth *auth.Service
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(service *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{auth: service}
}

// RequireUser accepts any of the given credential kinds (both when none
// are named) and attaches the resolved user to the request. A request
// presenting no usable credential gets a plain 401; verification failures
// get the same visible response with more detail logged server-side.
func (m *AuthMiddleware) RequireUser(modes ...string) fiber.Handler {
	if len(modes) == 0 {
		modes = []string{ModeAPIKey, ModeBearer}
	}
	allowed := make(map[string]bool, len(modes))
	for _, mode := range modes {
		allowed[mode] = true
	}

	return func(c fiber.Ctx) error {
		var user *models.User
		var err error

		if allowed[ModeAPIKey] {
			if key := c.Get(APIKeyHeader); key != "" {
				user, err = m.auth.UserForAPIKey(c.Context(), key)
			}
		}
		if user == nil && allowed[ModeBearer] {
			if header := c.Get(fiber.HeaderAuthorization); header != "" {
				user, err = m.auth.UserForHeader(c.Context(), header)
			}
		}

		if user == nil {
			return unauthorized(c, err)
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireIdentity accepts only a bearer identity token and attaches the
// verified external identity, without requiring a local user record to
// exist yet. Used by the first-sign-in sync and API key endpoints.
func (m *AuthMiddleware) RequireIdentity() fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, nil)
		}

		identity, err := m.auth.IdentityForHeader(c.Context(), header)
		if err != nil {
			return unauthorized(c, err)
		}

		c.Locals("identity", identity)
		return c.Next()
	}
}

// CurrentUser returns the user attached by RequireUser, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// CurrentIdentity returns the identity attached by RequireIdentity, or nil.
func CurrentIdentity(c fiber.Ctx) *auth.Identity {
	identity, _ := c.Locals("identity").(*auth.Identity)
	return identity
}

func unauthorized(c fiber.Ctx, err error) error {
	switch {
	case err == nil || errors.Is(err, auth.ErrAuthRequired):
		// Missing credential and unknown API key look identical on the
		// wire.
	case errors.Is(err, auth.ErrMalformedCredential):
		slog.Info("malformed credential", "path", c.Path())
	case errors.Is(err, auth.ErrInvalidCredential):
		slog.Info("credential failed verification", "path", c.Path())
	default:
		slog.Error("credential resolution failed", "path", c.Path(), "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
	return fiber.NewError(fiber.StatusUnauthorized, auth.ErrAuthRequired.Error())
}
