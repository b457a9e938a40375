package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/schematic-hub/internal/apperror"
	"github.com/sakif/schematic-hub/internal/blobstore"
	"github.com/sakif/schematic-hub/internal/model"
	"github.com/sakif/schematic-hub/internal/repository"
)

const (
	// SchematicExt is the only accepted upload extension. Content is not
	// inspected — a file is a schematic because it says so.
	SchematicExt = ".bloxdschem"

	// DefaultSchematicName is used when the upload form omits a display name.
	DefaultSchematicName = "Untitled"

	MaxSchematicNameLength = 120
)

// SchematicService owns the upload/list/download logic: ownership scoping,
// extension checks, storage-key generation, and keeping the metadata row and
// the blob consistent with each other.
type SchematicService struct {
	repo   repository.SchematicRepository
	blobs  blobstore.Store
	logger *slog.Logger
}

// NewSchematicService creates a SchematicService.
func NewSchematicService(repo repository.SchematicRepository, blobs blobstore.Store, logger *slog.Logger) *SchematicService {
	return &SchematicService{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
	}
}

// Download is what the download operation hands back: the blob stream plus
// the filename the browser should suggest.
type Download struct {
	Content  io.ReadCloser
	Filename string
}

// List returns all schematics owned by ownerID. Callers arrive here only
// through the auth middleware, so ownerID is a verified session identity,
// never client input.
func (s *SchematicService) List(ctx context.Context, ownerID int64) ([]model.Schematic, error) {
	schematics, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list schematics",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing schematics: %w", err)
	}

	return schematics, nil
}

// Upload validates the file, stores the blob, then inserts the metadata row.
//
// STORAGE KEY:
// The blob's on-disk name is a random v4 UUID plus the schematic extension —
// never the client-supplied filename. That closes both path traversal (no
// client bytes reach the filesystem) and collisions (128 bits of randomness;
// concurrent uploads cannot pick the same key).
//
// ORDERING AND COMPENSATION:
// Blob first, row second. A row pointing at a missing blob would make
// download fail for a schematic the user can see, so that order is wrong.
// The reverse failure — blob written, insert fails — is compensated by
// deleting the blob. A crash between the two leaves at worst an orphaned,
// unreachable file.
func (s *SchematicService) Upload(ctx context.Context, ownerID int64, name, filename string, content io.Reader) (*model.Schematic, error) {
	if content == nil {
		return nil, apperror.ValidationFailed("file", "file is required")
	}
	if !strings.HasSuffix(filename, SchematicExt) {
		return nil, apperror.ValidationFailed("file",
			fmt.Sprintf("file must be a %s file", SchematicExt))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSchematicName
	}
	if len(name) > MaxSchematicNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxSchematicNameLength))
	}

	key := uuid.NewString() + SchematicExt

	size, err := s.blobs.Save(ctx, key, content)
	if err != nil {
		s.logger.Error("failed to store schematic blob",
			slog.Int64("ownerID", ownerID),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing schematic blob: %w", err)
	}

	schematic := &model.Schematic{
		Name:       name,
		StorageKey: key,
		OwnerID:    ownerID,
	}
	if err := s.repo.Create(ctx, schematic); err != nil {
		// Compensate: the blob exists but no row points at it. Remove it so
		// the store doesn't accumulate unreachable files.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to delete orphaned blob after insert failure",
				slog.String("key", key),
				slog.String("error", delErr.Error()),
			)
		}
		s.logger.Error("failed to insert schematic row",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving schematic: %w", err)
	}

	s.logger.Info("schematic uploaded",
		slog.Int64("id", schematic.ID),
		slog.String("name", schematic.Name),
		slog.Int64("ownerID", ownerID),
		slog.Int64("bytes", size),
	)

	return schematic, nil
}

// GetOwned returns the schematic with the given id if callerID owns it.
// Missing rows are NotFound; rows owned by someone else are Forbidden, so a
// caller probing ids learns that an id exists but never gets its content.
func (s *SchematicService) GetOwned(ctx context.Context, callerID, id int64) (*model.Schematic, error) {
	schematic, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if schematic.OwnerID != callerID {
		return nil, apperror.Forbidden("schematic belongs to another user")
	}

	return schematic, nil
}

// DownloadByID streams the blob for the caller's schematic.
//
// The suggested filename is the display name plus the extension — the
// generated storage key stays private, and the name the user chose is the
// name they get back.
func (s *SchematicService) DownloadByID(ctx context.Context, callerID, id int64) (*Download, error) {
	schematic, err := s.GetOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	content, err := s.blobs.Open(ctx, schematic.StorageKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			// Row exists but the blob is gone — lost or removed out-of-band.
			// Blob-first ordering in Upload means we never create this state
			// ourselves. Surface as NotFound rather than a 500.
			s.logger.Error("schematic row has no backing blob",
				slog.Int64("id", id),
				slog.String("key", schematic.StorageKey),
			)
			return nil, apperror.NotFound("schematic", id)
		}
		return nil, fmt.Errorf("opening schematic blob: %w", err)
	}

	return &Download{
		Content:  content,
		Filename: schematic.Name + SchematicExt,
	}, nil
}
