package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"linkhive/internal/db"
	"linkhive/internal/metrics"
	"linkhive/internal/middleware"
	"linkhive/internal/models"
	"linkhive/internal/queue"
	"linkhive/internal/validation"
)

// maxPerPage caps the page size a client may request.
const maxPerPage = 100

// LinkHandler handles link CRUD and listing via JSON API.
type LinkHandler struct {
	db    *db.DB
	queue queue.Queue
}

// NewLinkHandler creates a new API link handler. The queue may be nil
// when enrichment is not configured.
func NewLinkHandler(database *db.DB, q queue.Queue) *LinkHandler {
	return &LinkHandler{db: database, queue: q}
}

// List returns one filtered, paginated page of the user's links.
func (h *LinkHandler) List(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	query, fields := parseLinkQuery(c)
	if len(fields) > 0 {
		return jsonValidationError(c, fields)
	}

	page, err := h.db.ListLinks(c.Context(), user.ID, query)
	if err != nil {
		if errors.Is(err, db.ErrCollectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "collection not found")
		}
		slog.Error("failed to list links", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch links")
	}

	return jsonSuccess(c, page)
}

// parseLinkQuery extracts and validates the listing parameters. Every
// invalid parameter gets its own message.
func parseLinkQuery(c fiber.Ctx) (db.LinkQuery, map[string]string) {
	query := db.LinkQuery{Page: 1, PerPage: 20, Show: db.ShowUnread}
	fields := make(map[string]string)

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields["page"] = "must be a positive integer"
		} else {
			query.Page = n
		}
	}

	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPerPage {
			fields["per_page"] = "must be an integer between 1 and " + strconv.Itoa(maxPerPage)
		} else {
			query.PerPage = n
		}
	}

	switch show := c.Query("show", db.ShowUnread); show {
	case db.ShowUnread, db.ShowRead, db.ShowAll:
		query.Show = show
	default:
		fields["show"] = "must be one of unread, read, all"
	}

	if raw := c.Query("collection"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["collection"] = "must be an integer collection id"
		} else {
			query.CollectionID = &id
		}
	}

	return query, fields
}

// Create stores a new link for the user. A link created without a title
// is handed to the enrichment queue; the response never waits on it.
func (h *LinkHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var body struct {
		URL          string  `json:"url"`
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		CollectionID *int64  `json:"collection_id"`
		Read         bool    `json:"read"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateURL(body.URL); !valid {
		return jsonValidationError(c, map[string]string{"url": msg})
	}

	if body.CollectionID != nil {
		if _, err := h.db.GetCollection(c.Context(), *body.CollectionID, user.ID); err != nil {
			if errors.Is(err, db.ErrCollectionNotFound) {
				return jsonError(c, fiber.StatusNotFound, "collection not found")
			}
			slog.Error("failed to resolve collection", "error", err)
			return jsonError(c, fiber.StatusInternalServerError, "failed to create link")
		}
	}

	link := &models.Link{
		UserID:       user.ID,
		CollectionID: body.CollectionID,
		URL:          body.URL,
		Title:        body.Title,
		Description:  body.Description,
		Read:         body.Read,
	}
	if err := h.db.CreateLink(c.Context(), link); err != nil {
		slog.Error("failed to create link", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create link")
	}

	if link.Title == nil {
		h.enqueueEnrichment(c.Context(), link)
	}

	return jsonCreated(c, "/v1/links/"+strconv.FormatInt(link.ID, 10), link)
}

// enqueueEnrichment hands the link to the metadata pipeline. Failures
// are logged and swallowed; link creation already succeeded.
func (h *LinkHandler) enqueueEnrichment(ctx context.Context, link *models.Link) {
	if h.queue == nil {
		return
	}
	job := queue.NewJob(link.ID, link.URL)
	if err := h.queue.Enqueue(ctx, job); err != nil {
		slog.Error("failed to enqueue enrichment job", "link_id", link.ID, "error", err)
		return
	}
	metrics.EnrichmentEnqueued.Inc()
	slog.Info("enrichment job enqueued", "job_id", job.ID, "link_id", link.ID)
}

// Get returns a single link. Only the owner may read it.
func (h *LinkHandler) Get(c fiber.Ctx) error {
	link, err := h.ownedLink(c)
	if err != nil {
		return err
	}
	return jsonSuccess(c, link)
}

// Update applies a partial update to a link. Protected fields are
// silently dropped; when nothing effectively changes no write happens.
func (h *LinkHandler) Update(c fiber.Ctx) error {
	link, err := h.ownedLink(c)
	if err != nil {
		return err
	}

	var changes map[string]any
	if err := json.Unmarshal(c.Body(), &changes); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if raw, ok := changes["url"]; ok {
		u, isString := raw.(string)
		if !isString {
			return jsonValidationError(c, map[string]string{"url": "must be a string"})
		}
		if valid, msg := validation.ValidateURL(u); !valid {
			return jsonValidationError(c, map[string]string{"url": msg})
		}
	}

	user := middleware.CurrentUser(c)
	if raw, ok := changes["collection_id"]; ok && raw != nil {
		id, isNumber := raw.(float64)
		if !isNumber {
			return jsonValidationError(c, map[string]string{"collection_id": "must be an integer collection id"})
		}
		if _, err := h.db.GetCollection(c.Context(), int64(id), user.ID); err != nil {
			if errors.Is(err, db.ErrCollectionNotFound) {
				return jsonError(c, fiber.StatusNotFound, "collection not found")
			}
			slog.Error("failed to resolve collection", "error", err)
			return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
		}
	}

	if _, err := h.db.UpdateLink(c.Context(), link, changes); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		slog.Error("failed to update link", "link_id", link.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
	}

	return jsonSuccess(c, link)
}

// Delete removes a link. Only the owner may delete it.
func (h *LinkHandler) Delete(c fiber.Ctx) error {
	link, err := h.ownedLink(c)
	if err != nil {
		return err
	}

	if err := h.db.DeleteLink(c.Context(), link.ID); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		slog.Error("failed to delete link", "link_id", link.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete link")
	}

	return jsonSuccess(c, fiber.Map{"message": "link deleted successfully"})
}

// ownedLink loads the link named by the path and enforces ownership. The
// returned error, if any, is a fiber error rendered by the app-level
// error handler.
func (h *LinkHandler) ownedLink(c fiber.Ctx) (*models.Link, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetLink(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "link not found")
		}
		slog.Error("failed to fetch link", "link_id", id, "error", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch link")
	}

	user := middleware.CurrentUser(c)
	if link.UserID != user.ID {
		return nil, fiber.NewError(fiber.StatusForbidden, "you do not have permission to access this link")
	}

	return link, nil
}
