package blobstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs as plain files in a single directory, one file per key.
//
// There is no fan-out into subdirectories: the expected blob count is modest
// and the keys are flat UUID strings. The directory is created on New,
// parents included, like `mkdir -p`.
type FSStore struct {
	dir string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates the directory if needed and returns a store over it.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("blobstore: creating directory %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

// Save writes the blob under key.
//
// O_EXCL makes creation atomic: if two writers ever raced on the same key the
// second open would fail instead of interleaving writes. A failed copy removes
// the partial file so the store never holds truncated blobs.
func (s *FSStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return 0, fmt.Errorf("blobstore: saving %q: %w", key, ErrKeyExists)
		}
		return 0, fmt.Errorf("blobstore: creating %q: %w", key, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, fmt.Errorf("blobstore: writing %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("blobstore: closing %q: %w", key, err)
	}

	return n, nil
}

// Open returns a reader over the blob's content.
func (s *FSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blobstore: opening %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("blobstore: opening %q: %w", key, err)
	}
	return f, nil
}

// Delete removes the blob file for key.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blobstore: deleting %q: %w", key, ErrNotFound)
		}
		return fmt.Errorf("blobstore: deleting %q: %w", key, err)
	}
	return nil
}

// path validates the key and resolves it inside the store directory.
//
// Keys are server-generated, so a bad key here means a bug upstream — but
// the check is the store's own invariant, not trust in its callers: no path
// separators, no "..", nothing that could address a file outside dir.
func (s *FSStore) path(key string) (string, error) {
	if key == "" ||
		key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) ||
		!fs.ValidPath(key) {
		return "", fmt.Errorf("blobstore: invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
