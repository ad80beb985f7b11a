// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.
// Everything here is a single-statement read; the SLTK loader owns all
// writes to these tables.

package store

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrGroupNotFound is returned when a group id does not resolve. It is an
// expected outcome, distinct from query failures, and maps to a 404 at the
// API layer.
var ErrGroupNotFound = errors.New("group not found")

// ErrUnavailable is returned when the data store connection is not usable.
// Maps to a 503 at the API layer.
var ErrUnavailable = errors.New("data store unavailable")

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping verifies the underlying connection pool is usable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// trimmed strips the fixed-width padding the loader's CHAR columns carry.
func trimmed(v string) string {
	return strings.TrimSpace(v)
}

// trimmedPtr converts a nullable CHAR column to a trimmed *string,
// preserving NULL as nil.
func trimmedPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	t := strings.TrimSpace(v.String)
	return &t
}
