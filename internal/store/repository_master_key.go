package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/models"
)

// masterKeyRepository is the SQL-backed implementation of
// [MasterKeyRepository]. One row per user; salt and fingerprint are always
// written together so the record can never be half-configured.
type masterKeyRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewMasterKeyRepository constructs a [MasterKeyRepository] backed by the
// provided database connection and logger.
func NewMasterKeyRepository(db *DB, logger *logger.Logger) MasterKeyRepository {
	return &masterKeyRepository{db: db, logger: logger}
}

// Get returns the user's master key record, or [ErrMasterKeyNotFound].
func (r *masterKeyRepository) Get(ctx context.Context, userID int64) (models.MasterKeyRecord, error) {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(getMasterKey)
	if err != nil {
		return models.MasterKeyRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var record models.MasterKeyRecord
	scanErr := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.KeyFingerprint,
		&record.Salt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.MasterKeyRecord{}, ErrMasterKeyNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "masterKeyRepository.Get").
			Int64("user_id", userID).
			Msg("failed to scan master key row")
		return models.MasterKeyRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return record, nil
}

// Upsert creates or replaces the master key record. The ON CONFLICT clause
// rewrites salt and fingerprint in one statement, keeping the
// both-or-neither invariant even under concurrent password changes.
func (r *masterKeyRepository) Upsert(ctx context.Context, record models.MasterKeyRecord) error {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(upsertMasterKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	_, execErr := r.db.ExecContext(ctx, query,
		record.UserID,
		record.KeyFingerprint,
		record.Salt,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "masterKeyRepository.Upsert").
			Int64("user_id", record.UserID).
			Msg("failed to upsert master key record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}
