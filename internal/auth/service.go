package auth

import (
	"context"
	"errors"
	"fmt"

	"linkhive/internal/db"
	"linkhive/internal/models"
)

// SyncOutcome describes what the first-sign-in sync did for an external
// identity.
type SyncOutcome string

const (
	SyncCreated  SyncOutcome = "created"  // brand-new local user row
	SyncAttached SyncOutcome = "attached" // subject attached to an existing record
	SyncExists   SyncOutcome = "exists"   // user already fully synced
)

// Service resolves request credentials into users or verified external
// identities.
type Service struct {
	db       *db.DB
	verifier Verifier
}

// NewService creates an auth service. The verifier may be nil when no
// identity provider is configured, in which case bearer tokens are
// rejected as invalid.
func NewService(database *db.DB, verifier Verifier) *Service {
	return &Service{db: database, verifier: verifier}
}

// UserForAPIKey resolves a plaintext API key to its owning user. Unknown
// keys fail exactly like a missing credential so the response does not
// leak whether a key exists.
func (s *Service) UserForAPIKey(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrAuthRequired
	}

	user, err := s.db.GetUserByAPIKeyHash(ctx, HashAPIKey(key))
	if errors.Is(err, db.ErrUserNotFound) {
		return nil, ErrAuthRequired
	}
	if err != nil {
		return nil, err
	}

	if !user.HasAPIKey() || !MatchesHash(key, *user.APIKeyHash) {
		return nil, ErrAuthRequired
	}
	return user, nil
}

// IdentityForHeader parses an Authorization header and verifies the
// bearer token it carries.
func (s *Service) IdentityForHeader(ctx context.Context, header string) (*Identity, error) {
	token, err := SplitBearer(header)
	if err != nil {
		return nil, err
	}
	if s.verifier == nil {
		return nil, ErrInvalidCredential
	}
	return s.verifier.Verify(ctx, token)
}

// UserForHeader resolves a bearer Authorization header to a local user.
// A verified identity without a local record resolves to ErrAuthRequired;
// the caller is expected to go through the sync flow first.
func (s *Service) UserForHeader(ctx context.Context, header string) (*models.User, error) {
	identity, err := s.IdentityForHeader(ctx, header)
	if err != nil {
		return nil, err
	}

	user, err := s.db.GetUserBySub(ctx, identity.Subject)
	if errors.Is(err, db.ErrUserNotFound) {
		return nil, ErrAuthRequired
	}
	return user, err
}

// SyncExternalUser reconciles a verified external identity with the local
// user store. Three outcomes, evaluated in priority order: no matching
// record creates one; a matching record without a subject gets the
// subject attached; a record that already carries the subject is left
// alone.
func (s *Service) SyncExternalUser(ctx context.Context, identity *Identity) (*models.User, SyncOutcome, error) {
	user, err := s.db.GetUserByEmailOrSub(ctx, identity.Email, identity.Subject)
	if errors.Is(err, db.ErrUserNotFound) {
		user = &models.User{
			ExternalSub: &identity.Subject,
		}
		if identity.Name != "" {
			user.Name = &identity.Name
		}
		if identity.Email != "" {
			user.Email = &identity.Email
		}
		if err := s.db.CreateUser(ctx, user); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
		return user, SyncCreated, nil
	}
	if err != nil {
		return nil, "", err
	}

	if !user.HasExternalIdentity() {
		if err := s.db.AttachExternalSub(ctx, user.ID, identity.Subject); err != nil {
			return nil, "", fmt.Errorf("failed to attach external identity: %w", err)
		}
		user.ExternalSub = &identity.Subject
		return user, SyncAttached, nil
	}

	return user, SyncExists, nil
}

// RotateAPIKey generates a new API key for the user and stores its hash,
// invalidating any previous key. Returns the plaintext key; it is not
// retrievable again.
func (s *Service) RotateAPIKey(ctx context.Context, userID int64) (string, error) {
	pair, err := GenerateAPIKey()
	if err != nil {
		return "", err
	}
	if err := s.db.SetAPIKeyHash(ctx, userID, pair.Hash); err != nil {
		return "", err
	}
	return pair.Key, nil
}
