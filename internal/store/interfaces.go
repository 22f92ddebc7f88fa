package store

import (
	"context"

	"github.com/gui-benedito/go-secret-vault/models"
)

// UserRepository reads the minimal user profile the engine embeds in backup
// artifacts. Account creation and authentication live outside this module.
type UserRepository interface {
	// GetUser returns the user with the given id, or [ErrUserNotFound].
	GetUser(ctx context.Context, userID int64) (models.User, error)

	// EnsureUser inserts the profile if no row with its id exists yet.
	// Used by the CLI to bootstrap a local single-user vault.
	EnsureUser(ctx context.Context, user models.User) error
}

// MasterKeyRepository persists the per-user master key verification record.
type MasterKeyRepository interface {
	// Get returns the user's master key record, or [ErrMasterKeyNotFound]
	// if the master password was never set.
	Get(ctx context.Context, userID int64) (models.MasterKeyRecord, error)

	// Upsert writes salt and fingerprint together, creating the record on
	// first master-password set and replacing both fields on change.
	Upsert(ctx context.Context, record models.MasterKeyRecord) error
}

// SecretRepository persists secret records. Deletion is always soft: records
// are flagged inactive, never physically removed.
type SecretRepository interface {
	// Create inserts a new secret record.
	Create(ctx context.Context, record models.SecretRecord) error

	// GetByID returns one secret owned by the user, active or not, or
	// [ErrSecretNotFound].
	GetByID(ctx context.Context, userID int64, secretID string) (models.SecretRecord, error)

	// List returns the user's secrets matching the filter.
	List(ctx context.Context, userID int64, filter models.SecretFilter) ([]models.SecretRecord, error)

	// UpdateEnvelope overwrites the envelope, metadata and activity flag of
	// an existing record. Returns [ErrSecretNotFound] when no row matches.
	UpdateEnvelope(ctx context.Context, record models.SecretRecord) error

	// SoftDelete flags the record inactive. Returns [ErrSecretNotFound]
	// when no active row matches.
	SoftDelete(ctx context.Context, userID int64, secretID string) error
}

// SecretVersionRepository persists the append-only version history.
type SecretVersionRepository interface {
	// Append inserts a snapshot with version = current max + 1 for the
	// owning record, retrying on (secret_id, version) unique-constraint
	// conflicts. Returns the snapshot with its assigned version number.
	Append(ctx context.Context, version models.SecretVersion) (models.SecretVersion, error)

	// Insert writes a snapshot keeping the version number it already
	// carries. Used on backup restore, where history numbering must survive
	// verbatim; regular snapshotting goes through Append.
	Insert(ctx context.Context, version models.SecretVersion) error

	// List returns all snapshots of one secret, newest first.
	List(ctx context.Context, secretID string) ([]models.SecretVersion, error)

	// Get returns one snapshot by record id and version number, or
	// [ErrVersionNotFound].
	Get(ctx context.Context, secretID string, version int64) (models.SecretVersion, error)

	// ListByUser returns every snapshot of every secret the user owns,
	// ordered by secret id and version. Used when assembling backups.
	ListByUser(ctx context.Context, userID int64) ([]models.SecretVersion, error)
}
