package store

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/migrations"
)

// DB wraps a database/sql connection with the dialect-specific pieces the
// repositories need: a placeholder format for query rebinding, an error
// classifier for constraint-violation detection, and a logger.
type DB struct {
	*sql.DB

	dialect     string
	placeholder sq.PlaceholderFormat
	classifier  errorClassifier
	logger      *logger.Logger
}

// errorClassifier abstracts driver-specific error inspection so the
// repositories stay dialect-agnostic.
type errorClassifier interface {
	// IsUniqueViolation reports whether err is a unique-constraint violation.
	IsUniqueViolation(err error) bool
}

// Migrate applies all embedded migrations for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// rebind converts a query written with ? placeholders to the connection's
// placeholder format ($N for Postgres, ? left as-is for SQLite).
func (db *DB) rebind(query string) (string, error) {
	return db.placeholder.ReplacePlaceholders(query)
}

// builder returns a squirrel statement builder configured for the
// connection's placeholder format. Used for dynamically composed queries.
func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}

// nowUTC returns the current time in UTC, truncated to microseconds so the
// value survives a round-trip through either backend unchanged.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
