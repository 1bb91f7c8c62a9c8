package models

import "time"

// Link is a saved URL owned by a user, optionally placed in a collection.
// Title and description may be filled in later by the enrichment worker
// when the creator did not supply them.
type Link struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	CollectionID *int64    `json:"collection_id"` // nil means uncategorized
	URL          string    `json:"url"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}
