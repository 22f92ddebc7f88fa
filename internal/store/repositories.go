package store

import (
	"context"
	"fmt"

	"github.com/gui-benedito/go-secret-vault/internal/config"
	"github.com/gui-benedito/go-secret-vault/internal/logger"
)

// Repositories aggregates every repository the service layer depends on,
// constructed over one shared database connection.
type Repositories struct {
	Users      UserRepository
	MasterKeys MasterKeyRepository
	Secrets    SecretRepository
	Versions   SecretVersionRepository

	db *DB
}

// NewRepositories connects to the configured backend (PostgreSQL when a DSN
// is set, the local SQLite file otherwise), runs migrations and constructs
// all repositories.
func NewRepositories(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Repositories, error) {
	var (
		db  *DB
		err error
	)

	switch {
	case cfg.DB.DSN != "":
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	case cfg.DB.Path != "":
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	default:
		return nil, fmt.Errorf("no storage backend configured: set a database DSN or a local file path")
	}
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Repositories{
		Users:      NewUserRepository(db, log),
		MasterKeys: NewMasterKeyRepository(db, log),
		Secrets:    NewSecretRepository(db, log),
		Versions:   NewSecretVersionRepository(db, log),
		db:         db,
	}, nil
}

// Close releases the underlying database connection.
func (r *Repositories) Close() error {
	return r.db.Close()
}
