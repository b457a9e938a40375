package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return store
}

func TestSaveOpen_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	content := []byte("\x00\x01binary schematic payload\xff")

	n, err := store.Save(context.Background(), "key-1.bloxdschem", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("Save() wrote %d bytes, want %d", n, len(content))
	}

	rc, err := store.Open(context.Background(), "key-1.bloxdschem")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round-trip mismatch: got %q, want %q", got, content)
	}
}

func TestSave_DuplicateKey(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(context.Background(), "dup", strings.NewReader("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := store.Save(context.Background(), "dup", strings.NewReader("second"))
	if !errors.Is(err, ErrKeyExists) {
		t.Errorf("Save() error = %v, want ErrKeyExists", err)
	}

	// The original blob must be untouched.
	rc, err := store.Open(context.Background(), "dup")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "first" {
		t.Errorf("blob content = %q, want %q", got, "first")
	}
}

func TestOpen_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(context.Background(), "gone", strings.NewReader("bytes")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.Open(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	store := newTestStore(t)

	if err := store.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	store := newTestStore(t)

	// Keys are server-generated, but the store still refuses anything that
	// could address a file outside its directory.
	bad := []string{
		"",
		".",
		"..",
		"../escape",
		"nested/key",
		`windows\separator`,
	}
	for _, key := range bad {
		t.Run(key, func(t *testing.T) {
			if _, err := store.Save(context.Background(), key, strings.NewReader("x")); err == nil {
				t.Errorf("Save(%q) should fail", key)
			}
			if _, err := store.Open(context.Background(), key); err == nil {
				t.Errorf("Open(%q) should fail", key)
			}
			if err := store.Delete(context.Background(), key); err == nil {
				t.Errorf("Delete(%q) should fail", key)
			}
		})
	}
}
