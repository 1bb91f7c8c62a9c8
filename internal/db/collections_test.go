package db

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"linkhive/internal/models"
)

func TestCreateCollection_PositionsAreSequential(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "sequencer")

	for i := 0; i < 3; i++ {
		c := &models.Collection{UserID: user.ID, Name: "Collection " + strconv.Itoa(i)}
		if err := db.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection() error = %v", err)
		}
		if c.Position != i {
			t.Errorf("CreateCollection() position = %d, want %d", c.Position, i)
		}
	}
}

func TestCreateCollection_UserMustExist(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	c := &models.Collection{UserID: 999999, Name: "Orphan"}
	err := db.CreateCollection(context.Background(), c)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("CreateCollection() error = %v, want ErrUserNotFound", err)
	}
}

func TestCreateCollection_Quota(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "hoarder")

	for i := 0; i < models.MaxCollectionsPerUser; i++ {
		c := &models.Collection{UserID: user.ID, Name: "Collection " + strconv.Itoa(i)}
		if err := db.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection() #%d error = %v", i, err)
		}
	}

	over := &models.Collection{UserID: user.ID, Name: "One too many"}
	if err := db.CreateCollection(ctx, over); !errors.Is(err, ErrCollectionQuota) {
		t.Errorf("CreateCollection() over quota error = %v, want ErrCollectionQuota", err)
	}

	// Archiving one frees a slot.
	list, err := db.ListCollections(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if _, err := db.ArchiveCollection(ctx, list[0].ID); err != nil {
		t.Fatalf("ArchiveCollection() error = %v", err)
	}
	if err := db.CreateCollection(ctx, over); err != nil {
		t.Errorf("CreateCollection() after archive error = %v", err)
	}
}

func TestArchiveCollection_DetachesLinksAndRenumbers(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "archiver")

	var collections []*models.Collection
	for i := 0; i < 3; i++ {
		c := &models.Collection{UserID: user.ID, Name: "Collection " + strconv.Itoa(i)}
		if err := db.CreateCollection(ctx, c); err != nil {
			t.Fatalf("CreateCollection() error = %v", err)
		}
		collections = append(collections, c)
	}

	middle := collections[1]
	link := &models.Link{UserID: user.ID, URL: "https://example.com", CollectionID: &middle.ID}
	if err := db.CreateLink(ctx, link); err != nil {
		t.Fatalf("CreateLink() error = %v", err)
	}

	archived, err := db.ArchiveCollection(ctx, middle.ID)
	if err != nil {
		t.Fatalf("ArchiveCollection() error = %v", err)
	}
	if !archived.Archived {
		t.Error("ArchiveCollection() did not mark collection archived")
	}

	stored, err := db.GetLink(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetLink() error = %v", err)
	}
	if stored.CollectionID != nil {
		t.Errorf("ArchiveCollection() link still attached to collection %d", *stored.CollectionID)
	}

	remaining, err := db.ListCollections(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("ListCollections() returned %d collections, want 2", len(remaining))
	}
	for i, c := range remaining {
		if c.Position != i {
			t.Errorf("collection %d position = %d, want %d", c.ID, c.Position, i)
		}
	}
	if remaining[0].ID != collections[0].ID || remaining[1].ID != collections[2].ID {
		t.Error("ArchiveCollection() did not preserve relative order")
	}
}

func TestArchiveCollection_OnlyCollection(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "lonely")

	c := &models.Collection{UserID: user.ID, Name: "Only"}
	if err := db.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}

	if _, err := db.ArchiveCollection(ctx, c.ID); err != nil {
		t.Fatalf("ArchiveCollection() error = %v", err)
	}

	remaining, err := db.ListCollections(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("ListCollections() returned %d collections, want 0", len(remaining))
	}
}

func TestArchiveCollection_AlreadyArchived(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "rearchiver")

	c := &models.Collection{UserID: user.ID, Name: "Once"}
	if err := db.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}
	if _, err := db.ArchiveCollection(ctx, c.ID); err != nil {
		t.Fatalf("ArchiveCollection() error = %v", err)
	}

	if _, err := db.ArchiveCollection(ctx, c.ID); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("ArchiveCollection() second call error = %v, want ErrCollectionNotFound", err)
	}
}

func TestGetCollection_OwnershipAndArchival(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestUser(t, db, "collection-owner")
	other := createTestUser(t, db, "collection-other")

	c := &models.Collection{UserID: owner.ID, Name: "Private"}
	if err := db.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}

	if _, err := db.GetCollection(ctx, c.ID, owner.ID); err != nil {
		t.Errorf("GetCollection() as owner error = %v", err)
	}
	if _, err := db.GetCollection(ctx, c.ID, other.ID); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("GetCollection() as other error = %v, want ErrCollectionNotFound", err)
	}

	if _, err := db.ArchiveCollection(ctx, c.ID); err != nil {
		t.Fatalf("ArchiveCollection() error = %v", err)
	}
	if _, err := db.GetCollection(ctx, c.ID, owner.ID); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("GetCollection() archived error = %v, want ErrCollectionNotFound", err)
	}
}
