package db

import (
	"context"
	"errors"
	"testing"

	"linkhive/internal/models"
)

func TestCreateAndGetUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	name := "Ada"
	email := "ada@example.com"
	sub := "idp|ada"

	user := &models.User{Name: &name, Email: &email, ExternalSub: &sub}
	if err := db.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("CreateUser() did not set ID")
	}

	bySub, err := db.GetUserBySub(ctx, sub)
	if err != nil {
		t.Fatalf("GetUserBySub() error = %v", err)
	}
	if bySub.ID != user.ID {
		t.Errorf("GetUserBySub() ID = %d, want %d", bySub.ID, user.ID)
	}

	if _, err := db.GetUserBySub(ctx, "idp|nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserBySub() unknown error = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserByEmailOrSub(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	name := "Grace"
	email := "grace@example.com"

	// User pre-dating external identity: has an email but no subject.
	user := &models.User{Name: &name, Email: &email}
	if err := db.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	found, err := db.GetUserByEmailOrSub(ctx, email, "idp|grace")
	if err != nil {
		t.Fatalf("GetUserByEmailOrSub() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("GetUserByEmailOrSub() ID = %d, want %d", found.ID, user.ID)
	}

	if err := db.AttachExternalSub(ctx, user.ID, "idp|grace"); err != nil {
		t.Fatalf("AttachExternalSub() error = %v", err)
	}

	attached, err := db.GetUserBySub(ctx, "idp|grace")
	if err != nil {
		t.Fatalf("GetUserBySub() after attach error = %v", err)
	}
	if !attached.HasExternalIdentity() {
		t.Error("AttachExternalSub() did not persist the subject")
	}
}

func TestSetAPIKeyHashAndLookup(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "keyed")

	hash := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	if err := db.SetAPIKeyHash(ctx, user.ID, hash); err != nil {
		t.Fatalf("SetAPIKeyHash() error = %v", err)
	}

	found, err := db.GetUserByAPIKeyHash(ctx, hash)
	if err != nil {
		t.Fatalf("GetUserByAPIKeyHash() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("GetUserByAPIKeyHash() ID = %d, want %d", found.ID, user.ID)
	}

	if _, err := db.GetUserByAPIKeyHash(ctx, "unknown"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByAPIKeyHash() unknown error = %v, want ErrUserNotFound", err)
	}
}

func TestCountUserLinks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "counter")

	count, err := db.CountUserLinks(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountUserLinks() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountUserLinks() = %d, want 0", count)
	}

	for _, url := range []string{"https://a.example.com", "https://b.example.com"} {
		link := &models.Link{UserID: user.ID, URL: url}
		if err := db.CreateLink(ctx, link); err != nil {
			t.Fatalf("CreateLink() error = %v", err)
		}
	}

	count, err = db.CountUserLinks(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountUserLinks() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountUserLinks() = %d, want 2", count)
	}
}
