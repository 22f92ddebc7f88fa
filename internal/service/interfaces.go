// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gui Benedito

// Package service implements the vault engine's operations on top of the
// cryptographic core and the repositories: master password lifecycle,
// per-secret encryption with version history, whole-vault backup, and
// password tooling. All methods take and return plain data structures so
// any transport layer can sit on top without touching the engine.
package service

import (
	"context"

	"github.com/gui-benedito/go-secret-vault/models"
)

// MasterKeyService manages the single master password every derivation in
// the vault hangs off.
type MasterKeyService interface {
	// SetMasterPassword creates or changes the user's master password.
	// When a master key record already exists, currentPassword must verify
	// against it first. Salt and fingerprint are always regenerated
	// together; the record is never deleted while the account exists.
	SetMasterPassword(ctx context.Context, userID int64, currentPassword, newPassword string) (models.MasterKeyRecord, error)

	// VerifyMasterPassword checks the password against the stored
	// fingerprint. Returns nil on success, [ErrMasterKeyNotSet] when no
	// record exists, [ErrInvalidMasterPassword] on mismatch.
	VerifyMasterPassword(ctx context.Context, userID int64, password string) error
}

// VaultService owns the secret records: envelope encryption, the append-only
// version history, and the soft-delete lifecycle.
type VaultService interface {
	// EncryptSecret derives a fresh per-record key and seals the plaintext
	// fields into an envelope. Optional fields that are nil or empty are
	// left out of the envelope. Pure: no persistence, no password pre-check.
	EncryptSecret(fields models.SecretFields, masterPassword string) (models.Envelope, error)

	// DecryptSecret re-derives the key from the envelope's stored salt and
	// opens each non-nil field. The envelope's key fingerprint is checked
	// before any ciphertext is touched, so a wrong master password is
	// reported as the unambiguous [ErrInvalidMasterPassword] rather than an
	// AEAD failure.
	DecryptSecret(envelope models.Envelope, masterPassword string) (models.SecretFields, error)

	// CreateSecret validates the request, verifies the master password
	// against the user's master key record, encrypts, persists and
	// snapshots version 1.
	CreateSecret(ctx context.Context, userID int64, req models.CreateSecretRequest, masterPassword string) (models.SecretRecord, error)

	// GetSecret returns the stored record together with its decrypted
	// fields.
	GetSecret(ctx context.Context, userID int64, secretID, masterPassword string) (models.SecretRecord, models.SecretFields, error)

	// ListSecrets returns the user's records matching the filter, envelopes
	// intact.
	ListSecrets(ctx context.Context, userID int64, filter models.SecretFilter) ([]models.SecretRecord, error)

	// UpdateSecret decrypts the existing envelope, merges the changed
	// fields in, and re-encrypts everything under a brand-new
	// salt/nonce/key. Appends a version snapshot.
	UpdateSecret(ctx context.Context, userID int64, secretID string, changes models.SecretChanges, masterPassword string) (models.SecretRecord, error)

	// DeleteSecret soft-deletes the record and appends a version snapshot
	// with IsActive=false. Terminal: no operation reactivates the record.
	DeleteSecret(ctx context.Context, userID int64, secretID string) error

	// ListVersions returns all snapshots of one secret, newest first.
	ListVersions(ctx context.Context, userID int64, secretID string) ([]models.SecretVersion, error)

	// RestoreVersion verifies the master password against the target
	// snapshot's own fingerprint and salt, decrypts the snapshot,
	// re-encrypts it fresh and overwrites the live record's envelope and
	// metadata, then appends a new version snapshot.
	RestoreVersion(ctx context.Context, userID int64, secretID string, targetVersion int64, masterPassword string) (models.SecretRecord, error)
}

// BackupService is the whole-vault backup codec. Its cryptographic scheme is
// versioned independently of the per-secret scheme so either can be upgraded
// without breaking the other's stored data.
type BackupService interface {
	// Export serializes the user's vault to JSON and encrypts the whole
	// blob into a single self-contained base64 artifact.
	Export(ctx context.Context, userID int64, masterPassword string) (string, error)

	// Import decrypts and parses an artifact. A decryption failure maps to
	// [ErrInvalidMasterPassword]; malformed JSON after successful
	// decryption maps to [ErrCorruptArtifact].
	Import(artifact, masterPassword string) (*models.Backup, error)

	// Restore re-inserts the backup's secrets under fresh ids (envelopes
	// and crypto parameters preserved verbatim) and re-points version rows
	// through an id-remapping table. Orphan version rows are dropped.
	Restore(ctx context.Context, userID int64, backup *models.Backup) (models.RestoreResult, error)
}

// PasswordService generates random passwords and rates candidate passwords.
type PasswordService interface {
	// Generate produces a cryptographically random password honoring the
	// given options.
	Generate(opts models.GeneratorOptions) (string, error)

	// AnalyzeStrength rates a candidate password from its length, charset
	// coverage and repetition.
	AnalyzeStrength(password string) models.StrengthReport
}
