package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhive/internal/testutil"
)

func TestUserForAPIKey(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	service := NewService(database, nil)
	user := testutil.CreateTestUser(t, database, "Keyed", "keyed@example.com")

	key, err := service.RotateAPIKey(ctx, user.ID)
	require.NoError(t, err)

	resolved, err := service.UserForAPIKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// Unknown key is indistinguishable from a missing credential.
	_, err = service.UserForAPIKey(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = service.UserForAPIKey(ctx, "")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestRotateAPIKey_InvalidatesOldKey(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	service := NewService(database, nil)
	user := testutil.CreateTestUser(t, database, "Rotator", "rotator@example.com")

	oldKey, err := service.RotateAPIKey(ctx, user.ID)
	require.NoError(t, err)

	newKey, err := service.RotateAPIKey(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, oldKey, newKey)

	_, err = service.UserForAPIKey(ctx, oldKey)
	assert.ErrorIs(t, err, ErrAuthRequired)

	resolved, err := service.UserForAPIKey(ctx, newKey)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestSyncExternalUser(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	service := NewService(database, nil)

	identity := &Identity{Subject: "idp|new", Name: "New User", Email: "new@example.com"}

	// No matching record: one gets created.
	user, outcome, err := service.SyncExternalUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, SyncCreated, outcome)
	require.NotNil(t, user.ExternalSub)
	assert.Equal(t, identity.Subject, *user.ExternalSub)

	// Already synced: nothing changes.
	again, outcome, err := service.SyncExternalUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, SyncExists, outcome)
	assert.Equal(t, user.ID, again.ID)
}

func TestSyncExternalUser_AttachesToExistingEmail(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	service := NewService(database, nil)

	// A user that pre-dates the identity provider.
	existing := testutil.CreateTestUser(t, database, "Legacy", "legacy@example.com")

	identity := &Identity{Subject: "idp|legacy", Name: "Legacy", Email: "legacy@example.com"}
	user, outcome, err := service.SyncExternalUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, SyncAttached, outcome)
	assert.Equal(t, existing.ID, user.ID)
	require.NotNil(t, user.ExternalSub)
	assert.Equal(t, identity.Subject, *user.ExternalSub)
}

func TestIdentityForHeader_NoVerifier(t *testing.T) {
	service := NewService(nil, nil)

	_, err := service.IdentityForHeader(context.Background(), "Bearer sometoken")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = service.IdentityForHeader(context.Background(), "Token sometoken")
	assert.ErrorIs(t, err, ErrMalformedCredential)
}
