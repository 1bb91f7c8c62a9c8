package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"linkhive/internal/models"
	"linkhive/internal/validation"
)

// JSONImporter imports a JSON array of bookmark rows.
type JSONImporter struct {
	db LinkCreator
}

// NewJSONImporter creates an importer persisting through the given store.
func NewJSONImporter(db LinkCreator) *JSONImporter {
	return &JSONImporter{db: db}
}

// Extract decodes the export payload. The payload must be a JSON array;
// anything else is a format error.
func (i *JSONImporter) Extract(data []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid import payload: %w", err)
	}
	return rows, nil
}

// Transform trims fields and drops rows without a valid URL. Returns the
// surviving rows and how many were dropped.
func (i *JSONImporter) Transform(rows []Row) ([]Row, int) {
	var kept []Row
	dropped := 0
	for _, row := range rows {
		row.URL = strings.TrimSpace(row.URL)
		if valid, msg := validation.ValidateURL(row.URL); !valid {
			slog.Warn("dropping import row", "url", row.URL, "reason", msg)
			dropped++
			continue
		}
		row.Title = trimmed(row.Title)
		row.Description = trimmed(row.Description)
		kept = append(kept, row)
	}
	return kept, dropped
}

// Load persists the rows under the given user. Per-row failures are
// counted and logged without aborting the batch.
func (i *JSONImporter) Load(ctx context.Context, userID int64, rows []Row) Stats {
	var stats Stats
	for _, row := range rows {
		link := &models.Link{
			UserID:      userID,
			URL:         row.URL,
			Title:       row.Title,
			Description: row.Description,
			Read:        row.Read,
		}
		if err := i.db.CreateLink(ctx, link); err != nil {
			slog.Error("failed to import link", "url", row.URL, "error", err)
			stats.Errors++
			continue
		}
		stats.Imported++
	}
	return stats
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
