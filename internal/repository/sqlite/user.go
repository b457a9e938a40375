package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"

	"github.com/sakif/schematic-hub/internal/apperror"
	"github.com/sakif/schematic-hub/internal/model"
	"github.com/sakif/schematic-hub/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// SQLITE_CONSTRAINT_UNIQUE — extended result code the driver returns when an
// insert violates a UNIQUE constraint.
const sqliteConstraintUnique = 2067

// CreateUser inserts a new user row and fills in the generated ID and
// CreatedAt on the caller's struct.
//
// UNIQUENESS UNDER RACES:
// There is deliberately no SELECT-before-INSERT here. The UNIQUE constraint
// on username does the arbitration inside SQLite itself, so two concurrent
// registrations of the same name cannot both succeed — the loser's insert
// fails with a constraint error, which we surface as apperror.Conflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at)
		 VALUES (?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByUsername retrieves a user by their unique username.
// Returns an error wrapping apperror.ErrNotFound if no such user exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user %q not found", username),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &u, nil
}

// GetUserByID retrieves a user by their internal id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// isUniqueViolation reports whether err is the driver's UNIQUE-constraint
// failure. errors.As digs the typed driver error out of database/sql's
// wrapping.
func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	return errors.As(err, &se) && se.Code() == sqliteConstraintUnique
}
