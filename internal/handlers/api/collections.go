package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"linkhive/internal/db"
	"linkhive/internal/middleware"
	"linkhive/internal/models"
)

// CollectionHandler handles collection listing, creation and archival.
type CollectionHandler struct {
	db *db.DB
}

// NewCollectionHandler creates a new API collection handler.
func NewCollectionHandler(database *db.DB) *CollectionHandler {
	return &CollectionHandler{db: database}
}

// List returns the user's non-archived collections in position order.
func (h *CollectionHandler) List(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	collections, err := h.db.ListCollections(c.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list collections", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch collections")
	}
	if collections == nil {
		collections = []models.Collection{}
	}

	return jsonSuccess(c, collections)
}

// Create adds a collection at the end of the user's ordering.
func (h *CollectionHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		Name string  `json:"name"`
		Icon *string `json:"icon"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return jsonValidationError(c, map[string]string{"name": "name is required"})
	}

	collection := &models.Collection{
		UserID: user.ID,
		Name:   body.Name,
		Icon:   body.Icon,
	}
	if err := h.db.CreateCollection(c.Context(), collection); err != nil {
		if errors.Is(err, db.ErrCollectionQuota) {
			return jsonValidationError(c, map[string]string{
				"name": "you already have the maximum of " + strconv.Itoa(models.MaxCollectionsPerUser) + " collections",
			})
		}
		slog.Error("failed to create collection", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create collection")
	}

	return jsonCreated(c, "/v1/collections/"+strconv.FormatInt(collection.ID, 10), collection)
}

// Archive soft-deletes a collection, detaching its links and closing the
// gap in the remaining ordering.
func (h *CollectionHandler) Archive(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid collection id")
	}

	// Ownership check; an archived or foreign collection reads as absent.
	if _, err := h.db.GetCollection(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrCollectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "collection not found")
		}
		slog.Error("failed to fetch collection", "collection_id", id, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to archive collection")
	}

	collection, err := h.db.ArchiveCollection(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrCollectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "collection not found")
		}
		slog.Error("failed to archive collection", "collection_id", id, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to archive collection")
	}

	return jsonSuccess(c, collection)
}
