package repository

import (
	"context"

	"github.com/sakif/schematic-hub/internal/model"
)

// UserRepository is the Identity Store: it persists user records and is the
// sole arbiter of username uniqueness. CreateUser must enforce uniqueness
// atomically (a database constraint, not check-then-insert), so exactly one
// of two racing registrations for the same username succeeds.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// SchematicRepository persists schematic metadata rows. Blob content lives in
// the blob store, addressed by the row's StorageKey.
type SchematicRepository interface {
	Create(ctx context.Context, schematic *model.Schematic) error
	GetByID(ctx context.Context, id int64) (*model.Schematic, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Schematic, error)
}
