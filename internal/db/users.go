package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"linkhive/internal/models"
)

// userColumns is the standard column list for user queries.
const userColumns = `id, name, email, external_sub, api_key_hash, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.ExternalSub,
		&user.APIKeyHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user row and fills in the generated fields.
func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, external_sub, api_key_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.ExternalSub,
		user.APIKeyHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserByID retrieves a user by their numeric ID.
func (d *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, id))
}

// GetUserBySub retrieves a user by their identity-provider subject.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_sub = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, sub))
}

// GetUserByEmailOrSub retrieves a user matching either the given email or
// the given identity-provider subject. Used by the first-sign-in sync flow
// to reconcile a pre-existing local record with a newly seen external
// identity.
func (d *DB) GetUserByEmailOrSub(ctx context.Context, email, sub string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (email = $1 AND email IS NOT NULL) OR external_sub = $2
		ORDER BY external_sub NULLS LAST
		LIMIT 1
	`
	return scanUser(d.Pool.QueryRow(ctx, query, email, sub))
}

// GetUserByAPIKeyHash retrieves the user whose stored key hash matches.
// A miss is reported as ErrUserNotFound so callers can treat an unknown
// key exactly like a missing credential.
func (d *DB) GetUserByAPIKeyHash(ctx context.Context, hash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE api_key_hash = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, hash))
}

// AttachExternalSub records the identity-provider subject on a user that
// was created before their first external sign-in.
func (d *DB) AttachExternalSub(ctx context.Context, userID int64, sub string) error {
	query := `UPDATE users SET external_sub = $1, updated_at = NOW() WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, sub, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetAPIKeyHash stores a new API key hash, replacing any previous one.
// The old key stops validating the moment this commits.
func (d *DB) SetAPIKeyHash(ctx context.Context, userID int64, hash string) error {
	query := `UPDATE users SET api_key_hash = $1, updated_at = NOW() WHERE id = $2`
	result, err := d.Pool.Exec(ctx, query, hash, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountUserLinks returns the total number of links a user has saved.
func (d *DB) CountUserLinks(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
