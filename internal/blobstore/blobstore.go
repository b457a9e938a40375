// Package blobstore stores schematic file content as opaque blobs keyed by
// generated names.
//
// The store knows nothing about users, sessions, or metadata rows — it is the
// dumb byte-bucket the schematic service writes into and reads back from.
// Keys are produced by the service (random UUIDs plus extension) and never
// come from client input, so a key can be used directly as a filename.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrKeyExists is returned by Save when a blob with the given key is already
// present. With UUID keys this indicates a programming error, not a race.
var ErrKeyExists = errors.New("blobstore: key already exists")

// ErrNotFound is returned by Open and Delete for unknown keys.
var ErrNotFound = errors.New("blobstore: blob not found")

// Store is the blob storage collaborator.
//
// Implementations must treat keys as opaque identifiers and reject any key
// that could escape the store's namespace (path separators and the like).
// Returning an interface here lets the schematic service run against the
// filesystem in production and an in-memory fake in tests.
type Store interface {
	// Save writes the blob read from r under key and returns the byte count.
	// Fails with ErrKeyExists if the key is already taken.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader over the blob's content. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Used as the compensating action when a
	// metadata insert fails after the blob was already written.
	Delete(ctx context.Context, key string) error
}
