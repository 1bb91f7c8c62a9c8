package db

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"linkhive/internal/models"
)

// Read-status filter values accepted by ListLinks.
const (
	ShowUnread = "unread"
	ShowRead   = "read"
	ShowAll    = "all"
)

// linkColumns is the standard column list for link queries.
const linkColumns = `id, user_id, collection_id, url, title, description, read, created_at`

// protectedLinkFields can never be changed through UpdateLink. Attempts
// are silently dropped rather than rejected.
var protectedLinkFields = map[string]bool{
	"id":      true,
	"user_id": true,
}

// scanLink scans a row into a Link struct.
func scanLink(row pgx.Row) (*models.Link, error) {
	var link models.Link
	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.CollectionID,
		&link.URL,
		&link.Title,
		&link.Description,
		&link.Read,
		&link.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// scanLinks scans multiple rows into a slice of Links.
func scanLinks(rows pgx.Rows) ([]models.Link, error) {
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.CollectionID,
			&link.URL,
			&link.Title,
			&link.Description,
			&link.Read,
			&link.CreatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// CreateLink persists a new link and fills in the generated fields.
func (d *DB) CreateLink(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (user_id, collection_id, url, title, description, read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		link.UserID,
		link.CollectionID,
		link.URL,
		link.Title,
		link.Description,
		link.Read,
	).Scan(&link.ID, &link.CreatedAt)
}

// GetLink retrieves a link by its ID.
func (d *DB) GetLink(ctx context.Context, id int64) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`
	return scanLink(d.Pool.QueryRow(ctx, query, id))
}

// UpdateLink applies the given changes to a link, skipping protected
// fields, unknown fields and values equal to what is already stored. When
// nothing effectively changes, no write is issued. Returns the number of
// fields applied. The in-memory link is updated to match.
func (d *DB) UpdateLink(ctx context.Context, link *models.Link, changes map[string]any) (int, error) {
	var cols []string
	var args []any

	addChange := func(col string, value any) {
		cols = append(cols, col)
		args = append(args, value)
	}

	for field, raw := range changes {
		if protectedLinkFields[field] {
			continue
		}
		switch field {
		case "url":
			v, ok := raw.(string)
			if ok && v != link.URL {
				addChange("url", v)
				link.URL = v
			}
		case "title":
			v, ok := toNullableString(raw)
			if ok && !equalNullableString(link.Title, v) {
				addChange("title", v)
				link.Title = v
			}
		case "description":
			v, ok := toNullableString(raw)
			if ok && !equalNullableString(link.Description, v) {
				addChange("description", v)
				link.Description = v
			}
		case "read":
			v, ok := raw.(bool)
			if ok && v != link.Read {
				addChange("read", v)
				link.Read = v
			}
		case "collection_id":
			v, ok := toNullableInt64(raw)
			if ok && !equalNullableInt64(link.CollectionID, v) {
				addChange("collection_id", v)
				link.CollectionID = v
			}
		}
	}

	if len(cols) == 0 {
		return 0, nil
	}

	sql := `UPDATE links SET `
	for i, col := range cols {
		if i > 0 {
			sql += ", "
		}
		sql += col + ` = $` + strconv.Itoa(i+1)
	}
	sql += ` WHERE id = $` + strconv.Itoa(len(cols)+1)
	args = append(args, link.ID)

	result, err := d.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	if result.RowsAffected() == 0 {
		return 0, ErrLinkNotFound
	}
	return len(cols), nil
}

// DeleteLink hard-deletes a link by ID.
func (d *DB) DeleteLink(ctx context.Context, id int64) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// LinkQuery describes one page of a user's links.
type LinkQuery struct {
	Page         int
	PerPage      int
	Show         string // unread, read or all
	CollectionID *int64 // nil scopes the listing to uncategorized links
}

// ListLinks returns one filtered, paginated page of a user's links, newest
// first. With no collection filter the listing covers only uncategorized
// links; a collection filter must resolve to a non-archived collection
// owned by the user, otherwise ErrCollectionNotFound is returned.
// TotalLinks in the result counts all of the user's links regardless of
// the active filters.
func (d *DB) ListLinks(ctx context.Context, userID int64, q LinkQuery) (*models.LinkPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}

	where := `WHERE user_id = $1`
	args := []any{userID}

	switch q.Show {
	case ShowRead:
		where += ` AND read = TRUE`
	case ShowUnread:
		where += ` AND read = FALSE`
	}

	if q.CollectionID != nil {
		if _, err := d.GetCollection(ctx, *q.CollectionID, userID); err != nil {
			return nil, err
		}
		where += ` AND collection_id = $` + strconv.Itoa(len(args)+1)
		args = append(args, *q.CollectionID)
	} else {
		where += ` AND collection_id IS NULL`
	}

	var filtered int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM links `+where, args...).Scan(&filtered); err != nil {
		return nil, err
	}

	sql := `SELECT ` + linkColumns + ` FROM links ` + where +
		` ORDER BY created_at DESC, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	rows, err := d.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	links, err := scanLinks(rows)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []models.Link{}
	}

	total, err := d.CountUserLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPages := int((filtered + int64(q.PerPage) - 1) / int64(q.PerPage))
	var nextPage *int
	if q.Page < totalPages {
		n := q.Page + 1
		nextPage = &n
	}

	return &models.LinkPage{
		TotalLinks: total,
		Page:       q.Page,
		TotalPages: totalPages,
		NextPage:   nextPage,
		PerPage:    q.PerPage,
		Links:      links,
	}, nil
}

func toNullableString(raw any) (*string, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, true
	case string:
		return &v, true
	case *string:
		return v, true
	}
	return nil, false
}

func toNullableInt64(raw any) (*int64, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, true
	case int64:
		return &v, true
	case *int64:
		return v, true
	case int:
		n := int64(v)
		return &n, true
	case float64:
		// JSON numbers decode as float64
		n := int64(v)
		return &n, true
	}
	return nil, false
}

func equalNullableString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalNullableInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
