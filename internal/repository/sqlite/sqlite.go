// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — no C compiler, works everywhere Go works.
//
// The package talks to the driver through database/sql: sql.Open creates a
// connection pool, ExecContext/QueryRowContext run statements, rows.Scan reads
// results into Go variables.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver's init() registers itself with
	// database/sql under the name "sqlite", enabling sql.Open("sqlite", ...).
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements both repository
// interfaces (user methods in user.go, schematic methods in schematic.go).
type DB struct {
	conn *sql.DB
}

// New creates a SQLite connection pool and runs migrations.
//
// dbPath examples:
//   - "data/schematics.db" → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer at a time, and the PRAGMAs below are
	// per-connection. Capping the pool at one connection makes the pragmas
	// apply to every query and lets ":memory:" behave as one database instead
	// of one-per-pooled-connection.
	conn.SetMaxOpenConns(1)

	// Ping forces an immediate connection so a bad path or permissions issue
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode: default SQLite locks the whole file during writes; WAL allows
	// concurrent reads while a write is in flight — important for a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Concurrent writers briefly queue on SQLite's single write lock. Without
	// a busy timeout the loser fails immediately with SQLITE_BUSY instead of
	// waiting its turn.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards compatibility.
	// We want the schematics.owner_id → users.id reference enforced.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent —
// safe to run on every startup against an existing database.
//
// The UNIQUE constraint on username is the single arbiter of registration
// races: two concurrent inserts of the same username, even over separate
// connections, resolve to exactly one winner inside SQLite.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schematics (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL DEFAULT 'Untitled',
			storage_key TEXT NOT NULL UNIQUE,
			owner_id    INTEGER NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_schematics_owner_id ON schematics(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schematics table: %w", err)
	}

	return nil
}
