package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/schematic-hub/internal/apperror"
	"github.com/sakif/schematic-hub/internal/model"
)

func createTestSchematic(t *testing.T, db *DB, ownerID int64, name, key string) *model.Schematic {
	t.Helper()
	s := &model.Schematic{Name: name, StorageKey: key, OwnerID: ownerID}
	if err := db.Create(context.Background(), s); err != nil {
		t.Fatalf("failed to create test schematic: %v", err)
	}
	return s
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestSchematicCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice")

	s := &model.Schematic{
		Name:       "castle",
		StorageKey: "3f2c9a1e-key.bloxdschem",
		OwnerID:    owner.ID,
	}
	if err := db.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Create modifies the struct in place (pointer receiver).
	if s.ID == 0 {
		t.Error("Create() did not set schematic.ID")
	}
	if s.CreatedAt.IsZero() {
		t.Error("Create() did not set schematic.CreatedAt")
	}
}

func TestSchematicCreate_RejectsUnknownOwner(t *testing.T) {
	db := newTestDB(t)

	// owner_id references users(id); with PRAGMA foreign_keys=ON an insert
	// pointing at a nonexistent user must fail.
	s := &model.Schematic{Name: "orphan", StorageKey: "orphan-key", OwnerID: 12345}
	if err := db.Create(context.Background(), s); err == nil {
		t.Fatal("Create() should fail for a nonexistent owner id")
	}
}

func TestSchematicCreate_VerifyPersistence(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice")
	original := createTestSchematic(t, db, owner.ID, "castle", "castle-key")

	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Name != original.Name {
		t.Errorf("Name = %q, want %q", found.Name, original.Name)
	}
	if found.StorageKey != original.StorageKey {
		t.Errorf("StorageKey = %q, want %q", found.StorageKey, original.StorageKey)
	}
	if found.OwnerID != owner.ID {
		t.Errorf("OwnerID = %d, want %d", found.OwnerID, owner.ID)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestSchematicGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), 424242)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST BY OWNER TESTS
// =========================================================================

func TestListByOwner_Empty(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice")

	list, err := db.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if list == nil {
		t.Error("ListByOwner() returned nil, want empty slice")
	}
	if len(list) != 0 {
		t.Errorf("ListByOwner() returned %d rows, want 0", len(list))
	}
}

func TestListByOwner_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createTestSchematic(t, db, alice.ID, "castle", "key-1")
	createTestSchematic(t, db, alice.ID, "bridge", "key-2")
	createTestSchematic(t, db, bob.ID, "tower", "key-3")

	list, err := db.ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("ListByOwner() returned %d rows, want 2", len(list))
	}
	for _, s := range list {
		if s.OwnerID != alice.ID {
			t.Errorf("ListByOwner() leaked schematic %d owned by %d", s.ID, s.OwnerID)
		}
	}
}
