package store

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
)

// newTestDB wraps a sqlmock connection in a Postgres-flavored [DB]: dollar
// placeholders and the pgconn error classifier, same as a real connection.
func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	l := logger.NewLogger("test")
	db := &DB{
		DB:          raw,
		dialect:     "pgx",
		placeholder: sq.Dollar,
		classifier:  postgresErrorClassifier{},
		logger:      l,
	}
	return db, mock, raw
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}
