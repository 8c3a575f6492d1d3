// Package sqlite implements the repository interfaces on SQLite via the
// pure-Go modernc.org/sqlite driver — no CGo, no database server, and tests
// run against ":memory:".
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver with database/sql
)

// DB wraps a sql.DB connection pool. The per-entity repositories returned
// by Users, Microposts and Relationships share this one pool, which keeps
// the cross-entity cascade (user delete) inside a single transaction
// without any cross-repository plumbing.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Microposts returns the micropost repository backed by this database.
func (db *DB) Microposts() *MicropostDB {
	return &MicropostDB{conn: db.conn}
}

// Relationships returns the relationship repository backed by this database.
func (db *DB) Relationships() *RelationshipDB {
	return &RelationshipDB{conn: db.conn}
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// PRAGMAs are per-connection and a ":memory:" database is too: a second
	// pool connection would see neither the pragmas below nor the data.
	// Pin the pool to one connection; SQLite serializes writers anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets feed reads proceed concurrently with follow/post writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Referential integrity: microposts and relationships reference users.
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

// Close closes the connection pool. Defer it wherever New succeeds.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	// Emails are stored normalized (lower-cased) by the service layer, so
	// the plain UNIQUE index yields case-insensitive uniqueness.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT    NOT NULL,
			email         TEXT    NOT NULL UNIQUE,
			password_hash TEXT    NOT NULL,
			salt          TEXT    NOT NULL,
			admin         INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS microposts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			body       TEXT    NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_microposts_user_id ON microposts(user_id);
		CREATE INDEX IF NOT EXISTS idx_microposts_created_at ON microposts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating microposts table: %w", err)
	}

	// UNIQUE(follower_id, followed_id) is what makes Follow idempotent:
	// a concurrent duplicate follow hits the index, not a second row.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS relationships (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			follower_id INTEGER NOT NULL REFERENCES users(id),
			followed_id INTEGER NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL,
			UNIQUE (follower_id, followed_id)
		);
		CREATE INDEX IF NOT EXISTS idx_relationships_follower_id ON relationships(follower_id);
		CREATE INDEX IF NOT EXISTS idx_relationships_followed_id ON relationships(followed_id);
	`)
	if err != nil {
		return fmt.Errorf("creating relationships table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as "constraint failed: UNIQUE constraint
// failed: <table>.<column>"; matching the message is the driver's documented
// escape hatch short of importing its C-level error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY constraint
// failure, i.e. a write referenced a user row that no longer exists.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
