package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"linkhive/internal/models"
)

// collectionColumns is the standard column list for collection queries.
const collectionColumns = `id, user_id, name, icon, archived, position, created_at`

// scanCollection scans a row into a Collection struct.
func scanCollection(row pgx.Row) (*models.Collection, error) {
	var c models.Collection
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Icon,
		&c.Archived,
		&c.Position,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCollection creates a new collection for the user, placing it after
// the user's current last non-archived collection (position 0 when none
// exist). Fails with ErrCollectionQuota once the user holds the maximum
// number of non-archived collections.
func (d *DB) CreateCollection(ctx context.Context, collection *models.Collection) error {
	if _, err := d.GetUserByID(ctx, collection.UserID); err != nil {
		return err
	}

	var active int
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM collections WHERE user_id = $1 AND archived = FALSE`,
		collection.UserID,
	).Scan(&active)
	if err != nil {
		return err
	}
	if active >= models.MaxCollectionsPerUser {
		return ErrCollectionQuota
	}

	query := `
		INSERT INTO collections (user_id, name, icon, archived, position)
		VALUES ($1, $2, $3, FALSE, (
			SELECT COALESCE(MAX(position) + 1, 0)
			FROM collections
			WHERE user_id = $1 AND archived = FALSE
		))
		RETURNING id, position, created_at
	`
	err = d.Pool.QueryRow(ctx, query,
		collection.UserID,
		collection.Name,
		collection.Icon,
	).Scan(&collection.ID, &collection.Position, &collection.CreatedAt)
	if err != nil {
		return err
	}
	collection.Archived = false
	return nil
}

// GetCollection returns the collection only if it belongs to the given
// user and is not archived, else ErrCollectionNotFound. Ownership misses
// are deliberately indistinguishable from absence.
func (d *DB) GetCollection(ctx context.Context, id, userID int64) (*models.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE id = $1 AND user_id = $2 AND archived = FALSE
	`
	return scanCollection(d.Pool.QueryRow(ctx, query, id, userID))
}

// ListCollections returns all non-archived collections for the user,
// ordered by position ascending.
func (d *DB) ListCollections(ctx context.Context, userID int64) ([]models.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE user_id = $1 AND archived = FALSE
		ORDER BY position ASC
	`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Name,
			&c.Icon,
			&c.Archived,
			&c.Position,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}

	return collections, rows.Err()
}

// ArchiveCollection soft-deletes a collection: it marks it archived,
// detaches every link that pointed at it, and renumbers the owner's
// remaining non-archived collections back to a contiguous 0..N-1
// sequence. The whole operation commits atomically.
func (d *DB) ArchiveCollection(ctx context.Context, id int64) (*models.Collection, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	collection, err := scanCollection(tx.QueryRow(ctx,
		`UPDATE collections SET archived = TRUE WHERE id = $1 AND archived = FALSE
		 RETURNING `+collectionColumns, id))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE links SET collection_id = NULL WHERE collection_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to detach links: %w", err)
	}

	if err := normalizePositions(ctx, tx, collection.UserID); err != nil {
		return nil, fmt.Errorf("failed to renumber collections: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return collection, nil
}

// normalizePositions reassigns positions 0..N-1 to the user's non-archived
// collections, ordered by their current position. Runs inside the caller's
// transaction so partial renumbering is never observable. Zero remaining
// collections is a no-op.
func normalizePositions(ctx context.Context, tx pgx.Tx, userID int64) error {
	rows, err := tx.Query(ctx, `
		SELECT id FROM collections
		WHERE user_id = $1 AND archived = FALSE
		ORDER BY position ASC
	`, userID)
	if err != nil {
		return err
	}

	var ids []int64
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, cid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for position, cid := range ids {
		batch.Queue(`UPDATE collections SET position = $1 WHERE id = $2`, position, cid)
	}
	return tx.SendBatch(ctx, batch).Close()
}
