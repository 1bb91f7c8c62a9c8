// Package importer loads bookmark exports into a user's account. An
// importer is split into three capabilities so new source formats only
// need a new Extract step.
package importer

import (
	"context"

	"linkhive/internal/models"
)

// Row is one bookmark as produced by the extract step, before it is
// bound to a user.
type Row struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Read        bool    `json:"read"`
}

// Stats summarizes an import run. Errors counts rows that could not be
// imported; they never abort the rest of the batch.
type Stats struct {
	Imported int `json:"imported"`
	Errors   int `json:"errors"`
}

// Extractor parses a raw export into rows.
type Extractor interface {
	Extract(data []byte) ([]Row, error)
}

// Transformer normalizes and validates rows, dropping the unusable ones.
type Transformer interface {
	Transform(rows []Row) ([]Row, int)
}

// Loader persists rows on behalf of a user.
type Loader interface {
	Load(ctx context.Context, userID int64, rows []Row) Stats
}

// Importer is a full extract/transform/load pipeline.
type Importer interface {
	Extractor
	Transformer
	Loader
}

// LinkCreator is the slice of the database the load step needs.
type LinkCreator interface {
	CreateLink(ctx context.Context, link *models.Link) error
}

// Run executes the whole pipeline against one export payload.
func Run(ctx context.Context, imp Importer, userID int64, data []byte) (Stats, error) {
	rows, err := imp.Extract(data)
	if err != nil {
		return Stats{}, err
	}
	rows, dropped := imp.Transform(rows)
	stats := imp.Load(ctx, userID, rows)
	stats.Errors += dropped
	return stats, nil
}
