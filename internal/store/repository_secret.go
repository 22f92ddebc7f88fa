package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/models"
)

// secretRepository is the SQL-backed implementation of [SecretRepository].
// It executes all secret-record CRUD against the "secrets" table using the
// embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so database interactions are traced with structured
// fields (user_id, secret_id, etc.).
type secretRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSecretRepository constructs a [SecretRepository] backed by the provided
// database connection and logger.
func NewSecretRepository(db *DB, logger *logger.Logger) SecretRepository {
	return &secretRepository{db: db, logger: logger}
}

// Create inserts a new secret record.
func (r *secretRepository) Create(ctx context.Context, record models.SecretRecord) error {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(createSecret)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Kind,
		record.Title,
		record.Description,
		record.Category,
		record.IsFavorite,
		nullCipher(record.EncryptedIdentifier),
		string(record.EncryptedSecretValue),
		nullCipher(record.EncryptedNotes),
		record.KeyFingerprint,
		record.IV,
		record.Salt,
		record.IsActive,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "secretRepository.Create").
			Int64("user_id", record.UserID).
			Str("secret_id", record.ID).
			Msg("failed to insert secret record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrSecretNotSaved
	}

	return nil
}

// GetByID returns one secret owned by the user, active or not.
func (r *secretRepository) GetByID(ctx context.Context, userID int64, secretID string) (models.SecretRecord, error) {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(getSecretByID)
	if err != nil {
		return models.SecretRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, scanErr := scanSecret(r.db.QueryRowContext(ctx, query, secretID, userID))
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.SecretRecord{}, ErrSecretNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "secretRepository.GetByID").
			Int64("user_id", userID).
			Str("secret_id", secretID).
			Msg("failed to scan secret row")
		return models.SecretRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return record, nil
}

// List returns the user's secrets matching the filter.
func (r *secretRepository) List(ctx context.Context, userID int64, filter models.SecretFilter) ([]models.SecretRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListSecretsQuery(r.db, userID, filter)
	if err != nil {
		log.Err(err).
			Str("func", "secretRepository.List").
			Int64("user_id", userID).
			Msg("failed to build listing query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "secretRepository.List").
			Int64("user_id", userID).
			Msg("failed to execute query for listing secrets")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	results := make([]models.SecretRecord, 0, 50)

	for rows.Next() {
		record, scanErr := scanSecret(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "secretRepository.List").
				Int64("user_id", userID).
				Msg("failed to scan secret row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		results = append(results, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "secretRepository.List").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// UpdateEnvelope overwrites the envelope, metadata and activity flag of an
// existing record.
func (r *secretRepository) UpdateEnvelope(ctx context.Context, record models.SecretRecord) error {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(updateSecretEnvelope)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.db.ExecContext(ctx, query,
		record.Title,
		record.Description,
		record.Category,
		record.IsFavorite,
		nullCipher(record.EncryptedIdentifier),
		string(record.EncryptedSecretValue),
		nullCipher(record.EncryptedNotes),
		record.KeyFingerprint,
		record.IV,
		record.Salt,
		record.IsActive,
		record.UpdatedAt,
		record.ID,
		record.UserID,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "secretRepository.UpdateEnvelope").
			Int64("user_id", record.UserID).
			Str("secret_id", record.ID).
			Msg("failed to update secret envelope")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrSecretNotFound
	}

	return nil
}

// SoftDelete flags an active record inactive; the row itself stays.
func (r *secretRepository) SoftDelete(ctx context.Context, userID int64, secretID string) error {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(softDeleteSecret)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.db.ExecContext(ctx, query, false, nowUTC(), secretID, userID, true)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "secretRepository.SoftDelete").
			Int64("user_id", userID).
			Str("secret_id", secretID).
			Msg("failed to soft-delete secret")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrSecretNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (models.SecretRecord, error) {
	var (
		record     models.SecretRecord
		identifier sql.NullString
		value      string
		notes      sql.NullString
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Kind,
		&record.Title,
		&record.Description,
		&record.Category,
		&record.IsFavorite,
		&identifier,
		&value,
		&notes,
		&record.KeyFingerprint,
		&record.IV,
		&record.Salt,
		&record.IsActive,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return models.SecretRecord{}, err
	}

	record.EncryptedIdentifier = cipherPtr(identifier)
	record.EncryptedSecretValue = models.CipherText(value)
	record.EncryptedNotes = cipherPtr(notes)

	return record, nil
}

// nullCipher converts an optional ciphertext field to its SQL representation.
func nullCipher(ct *models.CipherText) sql.NullString {
	if ct == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*ct), Valid: true}
}

// cipherPtr converts a scanned nullable column back to an optional ciphertext.
func cipherPtr(ns sql.NullString) *models.CipherText {
	if !ns.Valid {
		return nil
	}
	ct := models.CipherText(ns.String)
	return &ct
}
