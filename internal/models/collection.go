package models

import "time"

// MaxCollectionsPerUser caps how many non-archived collections one user
// may hold at a time.
const MaxCollectionsPerUser = 15

// Collection is a user-defined, orderable grouping of links. Archiving is
// the only way to remove one; positions of a user's non-archived
// collections always form a contiguous 0..N-1 sequence.
type Collection struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon"` // CLDR emoji short name, e.g. ":thought balloon:"
	Archived  bool      `json:"archived"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
