package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sakif/schematic-hub/internal/apperror"
	"github.com/sakif/schematic-hub/internal/model"
)

// newTestDB opens a fresh in-memory database for one test.
// ":memory:" is fast, isolated, and destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestFileDB opens a file-backed database in the test's temp dir.
// The registration race test uses it so the UNIQUE arbitration runs against
// the same WAL-mode setup production uses, not the in-memory shortcut.
func newTestFileDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "$2a$04$fakehashfortestingonly"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE USER TESTS
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "alice", PasswordHash: "$2a$04$hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	dupe := &model.User{Username: "alice", PasswordHash: "$2a$04$otherhash"}
	err := db.CreateUser(context.Background(), dupe)
	if err == nil {
		t.Fatal("CreateUser() should fail for a duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestCreateUser_AssignsDistinctIDs(t *testing.T) {
	db := newTestDB(t)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if alice.ID == bob.ID {
		t.Errorf("CreateUser() assigned the same ID (%d) to two users", alice.ID)
	}
}

func TestCreateUser_ConcurrentDuplicates_ExactlyOneWinner(t *testing.T) {
	db := newTestFileDB(t)

	// Fire N racing registrations for the same username. The UNIQUE
	// constraint must admit exactly one and reject the rest with a conflict.
	const attempts = 8

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := &model.User{Username: "contested", PasswordHash: "$2a$04$hash"}
			results <- db.CreateUser(context.Background(), u)
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperror.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("got %d successful registrations, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Errorf("got %d conflicts, want %d", conflicts, attempts-1)
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	found, err := db.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", found.PasswordHash, created.PasswordHash)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Username != "alice" {
		t.Errorf("Username = %q, want %q", found.Username, "alice")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
