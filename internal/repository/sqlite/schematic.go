package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/schematic-hub/internal/apperror"
	"github.com/sakif/schematic-hub/internal/model"
	"github.com/sakif/schematic-hub/internal/repository"
)

// compile-time check that *DB implements repository.SchematicRepository
var _ repository.SchematicRepository = (*DB)(nil)

// Create inserts a schematic metadata row and fills in the generated ID and
// CreatedAt on the caller's struct. The pointer receiver matters: after
// Create returns, the caller's schematic carries the id clients will use for
// listing and download.
//
// The ? placeholders are parameterized — the driver escapes values, so a
// display name like `'; DROP TABLE users;--` is just an odd name, not SQL.
func (db *DB) Create(ctx context.Context, schematic *model.Schematic) error {
	schematic.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO schematics (name, storage_key, owner_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		schematic.Name,
		schematic.StorageKey,
		schematic.OwnerID,
		schematic.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting schematic %q: %w", schematic.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new schematic id: %w", err)
	}
	schematic.ID = id

	return nil
}

// GetByID retrieves a schematic row by id.
// Returns apperror.ErrNotFound if no row exists with that id.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Schematic, error) {
	var s model.Schematic

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, storage_key, owner_id, created_at
		 FROM schematics WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.Name, &s.StorageKey, &s.OwnerID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("schematic", id)
		}
		return nil, fmt.Errorf("sqlite: getting schematic %d: %w", id, err)
	}

	return &s, nil
}

// ListByOwner returns all schematics owned by ownerID, oldest first.
//
// rows MUST be closed — the deferred Close releases the connection back to
// the pool. rows.Err() after the loop catches iteration failures that a bare
// rows.Next() == false would silently swallow.
func (db *DB) ListByOwner(ctx context.Context, ownerID int64) ([]model.Schematic, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, storage_key, owner_id, created_at
		 FROM schematics WHERE owner_id = ? ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing schematics for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	// Non-nil empty slice: an owner with no uploads serializes as [] not null.
	schematics := []model.Schematic{}
	for rows.Next() {
		var s model.Schematic
		if err := rows.Scan(&s.ID, &s.Name, &s.StorageKey, &s.OwnerID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning schematic row: %w", err)
		}
		schematics = append(schematics, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating schematic rows: %w", err)
	}

	return schematics, nil
}
