package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"linkhive/internal/importer"
	"linkhive/internal/middleware"
)

// ImportHandler accepts bookmark exports and loads them into the
// requesting user's account.
type ImportHandler struct {
	importer importer.Importer
}

// NewImportHandler creates a new import handler.
func NewImportHandler(imp importer.Importer) *ImportHandler {
	return &ImportHandler{importer: imp}
}

// Import runs the extract/transform/load pipeline on the request body.
// Individual bad rows are counted, not fatal; only an unparseable
// payload rejects the request.
func (h *ImportHandler) Import(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	stats, err := importer.Run(c.Context(), h.importer, user.ID, c.Body())
	if err != nil {
		return jsonValidationError(c, map[string]string{"body": err.Error()})
	}

	slog.Info("import finished", "user_id", user.ID, "imported", stats.Imported, "errors", stats.Errors)
	return jsonSuccess(c, stats)
}
