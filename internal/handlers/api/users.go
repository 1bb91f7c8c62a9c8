package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"linkhive/internal/auth"
	"linkhive/internal/db"
	"linkhive/internal/middleware"
	"linkhive/internal/models"
)

// UserHandler handles the current-user, first-sign-in sync and API key
// endpoints.
type UserHandler struct {
	db   *db.DB
	auth *auth.Service
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database *db.DB, service *auth.Service) *UserHandler {
	return &UserHandler{db: database, auth: service}
}

// Current returns the authenticated user and their total link count.
func (h *UserHandler) Current(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	count, err := h.db.CountUserLinks(c.Context(), user.ID)
	if err != nil {
		slog.Error("failed to count links", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	return jsonSuccess(c, models.CurrentUserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Links: count,
	})
}

// CheckUser reconciles a verified external identity with the local user
// store on first sign-in.
func (h *UserHandler) CheckUser(c fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	user, outcome, err := h.auth.SyncExternalUser(c.Context(), identity)
	if err != nil {
		slog.Error("failed to sync external user", "sub", identity.Subject, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to sync user")
	}

	var message string
	switch outcome {
	case auth.SyncCreated:
		message = "user created"
	case auth.SyncAttached:
		message = "user synced"
	default:
		message = "user already exists"
	}
	slog.Info("external user checked", "user_id", user.ID, "outcome", string(outcome))

	return jsonSuccess(c, fiber.Map{
		"message": message,
		"user_id": user.ID,
	})
}

// CreateAPIKey generates a fresh API key for the identity's user,
// invalidating any previous key. The plaintext key appears in this
// response and nowhere else.
func (h *UserHandler) CreateAPIKey(c fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	user, err := h.db.GetUserBySub(c.Context(), identity.Subject)
	if errors.Is(err, db.ErrUserNotFound) {
		// First call before check_user; sync implicitly.
		user, _, err = h.auth.SyncExternalUser(c.Context(), identity)
	}
	if err != nil {
		slog.Error("failed to resolve user for api key", "sub", identity.Subject, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create api key")
	}

	key, err := h.auth.RotateAPIKey(c.Context(), user.ID)
	if err != nil {
		slog.Error("failed to rotate api key", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create api key")
	}

	return jsonSuccess(c, models.APIKeyResponse{
		Message: "store this key now, it will not be shown again",
		APIKey:  key,
	})
}
