package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/models"
)

// appendVersionRetries bounds the unique-constraint retry loop in [Append].
// Conflicts only happen when two writers snapshot the same secret at the
// same instant, so a small budget is enough.
const appendVersionRetries = 3

// secretVersionRepository is the SQL-backed implementation of
// [SecretVersionRepository]. Rows in "secret_versions" are append-only:
// nothing in this repository mutates or deletes an existing snapshot.
type secretVersionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSecretVersionRepository constructs a [SecretVersionRepository] backed by
// the provided database connection and logger.
func NewSecretVersionRepository(db *DB, logger *logger.Logger) SecretVersionRepository {
	return &secretVersionRepository{db: db, logger: logger}
}

// Append inserts a snapshot with the next version number for the owning
// secret. The number is computed inside the INSERT statement; if a
// concurrent writer claims the same number first, the (secret_id, version)
// unique constraint rejects the insert and the statement is retried.
func (r *secretVersionRepository) Append(ctx context.Context, version models.SecretVersion) (models.SecretVersion, error) {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(appendVersion)
	if err != nil {
		return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var execErr error
	for attempt := 0; attempt < appendVersionRetries; attempt++ {
		_, execErr = r.db.ExecContext(ctx, query,
			version.ID,
			version.SecretID,
			version.UserID,
			version.Kind,
			version.Title,
			version.Description,
			version.Category,
			version.IsFavorite,
			nullCipher(version.EncryptedIdentifier),
			string(version.EncryptedSecretValue),
			nullCipher(version.EncryptedNotes),
			version.KeyFingerprint,
			version.IV,
			version.Salt,
			version.IsActive,
			version.CreatedAt,
			version.SecretID,
		)
		if execErr == nil {
			break
		}
		if !r.db.classifier.IsUniqueViolation(execErr) {
			log.Err(execErr).
				Str("func", "secretVersionRepository.Append").
				Str("secret_id", version.SecretID).
				Msg("failed to insert version snapshot")
			return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		log.Warn().
			Str("func", "secretVersionRepository.Append").
			Str("secret_id", version.SecretID).
			Int("attempt", attempt+1).
			Msg("version number conflict, retrying")
	}
	if execErr != nil {
		return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrVersionConflict, execErr)
	}

	numberQuery, err := r.db.rebind(getVersionNumber)
	if err != nil {
		return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if scanErr := r.db.QueryRowContext(ctx, numberQuery, version.ID).Scan(&version.Version); scanErr != nil {
		log.Err(scanErr).
			Str("func", "secretVersionRepository.Append").
			Str("secret_id", version.SecretID).
			Msg("failed to read back assigned version number")
		return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return version, nil
}

// Insert writes a snapshot keeping its original version number. Restores use
// it to replay a backup's history verbatim instead of renumbering it.
func (r *secretVersionRepository) Insert(ctx context.Context, version models.SecretVersion) error {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(insertVersion)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	_, execErr := r.db.ExecContext(ctx, query,
		version.ID,
		version.SecretID,
		version.UserID,
		version.Version,
		version.Kind,
		version.Title,
		version.Description,
		version.Category,
		version.IsFavorite,
		nullCipher(version.EncryptedIdentifier),
		string(version.EncryptedSecretValue),
		nullCipher(version.EncryptedNotes),
		version.KeyFingerprint,
		version.IV,
		version.Salt,
		version.IsActive,
		version.CreatedAt,
	)
	if r.db.classifier.IsUniqueViolation(execErr) {
		return fmt.Errorf("%w: %w", ErrVersionConflict, execErr)
	}
	if execErr != nil {
		log.Err(execErr).
			Str("func", "secretVersionRepository.Insert").
			Str("secret_id", version.SecretID).
			Int64("version", version.Version).
			Msg("failed to insert version snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// List returns all snapshots of one secret, newest first.
func (r *secretVersionRepository) List(ctx context.Context, secretID string) ([]models.SecretVersion, error) {
	return r.queryVersions(ctx, listVersionsBySecret, "secretVersionRepository.List", secretID)
}

// ListByUser returns every snapshot of every secret the user owns.
func (r *secretVersionRepository) ListByUser(ctx context.Context, userID int64) ([]models.SecretVersion, error) {
	return r.queryVersions(ctx, listVersionsByUser, "secretVersionRepository.ListByUser", userID)
}

// Get returns one snapshot by secret id and version number.
func (r *secretVersionRepository) Get(ctx context.Context, secretID string, versionNumber int64) (models.SecretVersion, error) {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(getVersion)
	if err != nil {
		return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	version, scanErr := scanVersion(r.db.QueryRowContext(ctx, query, secretID, versionNumber))
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.SecretVersion{}, ErrVersionNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "secretVersionRepository.Get").
			Str("secret_id", secretID).
			Int64("version", versionNumber).
			Msg("failed to scan version row")
		return models.SecretVersion{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return version, nil
}

func (r *secretVersionRepository) queryVersions(ctx context.Context, rawQuery, funcName string, arg any) ([]models.SecretVersion, error) {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, arg)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", funcName).
			Msg("failed to execute query for listing version snapshots")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	versions := make([]models.SecretVersion, 0, 50)

	for rows.Next() {
		version, scanErr := scanVersion(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan version row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		versions = append(versions, version)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return versions, nil
}

func scanVersion(row rowScanner) (models.SecretVersion, error) {
	var (
		version    models.SecretVersion
		identifier sql.NullString
		value      string
		notes      sql.NullString
	)

	err := row.Scan(
		&version.ID,
		&version.SecretID,
		&version.UserID,
		&version.Version,
		&version.Kind,
		&version.Title,
		&version.Description,
		&version.Category,
		&version.IsFavorite,
		&identifier,
		&value,
		&notes,
		&version.KeyFingerprint,
		&version.IV,
		&version.Salt,
		&version.IsActive,
		&version.CreatedAt,
	)
	if err != nil {
		return models.SecretVersion{}, err
	}

	version.EncryptedIdentifier = cipherPtr(identifier)
	version.EncryptedSecretValue = models.CipherText(value)
	version.EncryptedNotes = cipherPtr(notes)

	return version, nil
}
