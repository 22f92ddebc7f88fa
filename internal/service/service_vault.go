package service

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gui-benedito/go-secret-vault/internal/crypto"
	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/internal/utils"
	"github.com/gui-benedito/go-secret-vault/internal/validators"
	"github.com/gui-benedito/go-secret-vault/models"
)

// Field labels for domain-separated nonce derivation. Each envelope field is
// sealed under its own sub-nonce so the three same-key AEAD calls of one
// record never share a nonce.
const (
	fieldIdentifier  = "identifier"
	fieldSecretValue = "secret_value"
	fieldNotes       = "notes"
)

// vaultService is the private implementation of [VaultService].
type vaultService struct {
	keys      crypto.KeyDerivationService
	cipher    crypto.CipherService
	masterKey MasterKeyService
	secrets   store.SecretRepository
	versions  store.SecretVersionRepository
	validator validators.Validator
	uuid      *utils.UUIDGenerator

	logger *logger.Logger
}

// NewVaultService constructs a [VaultService].
func NewVaultService(
	keys crypto.KeyDerivationService,
	cipher crypto.CipherService,
	masterKey MasterKeyService,
	secrets store.SecretRepository,
	versions store.SecretVersionRepository,
	validator validators.Validator,
	logger *logger.Logger,
) VaultService {
	return &vaultService{
		keys:      keys,
		cipher:    cipher,
		masterKey: masterKey,
		secrets:   secrets,
		versions:  versions,
		validator: validator,
		uuid:      utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// EncryptSecret implements [VaultService]. It generates a fresh salt and base
// nonce, derives the record key, and seals each present field under its own
// domain-separated sub-nonce. A pointer to the empty string counts as absent:
// the slot stays nil instead of holding an empty envelope that could never
// decrypt.
func (v *vaultService) EncryptSecret(fields models.SecretFields, masterPassword string) (models.Envelope, error) {
	salt, err := v.keys.GenerateSalt()
	if err != nil {
		return models.Envelope{}, fmt.Errorf("generating record salt: %w", err)
	}
	baseNonce, err := v.keys.GenerateNonce()
	if err != nil {
		return models.Envelope{}, fmt.Errorf("generating record nonce: %w", err)
	}

	derived, err := v.keys.DeriveKey(masterPassword, salt)
	if err != nil {
		return models.Envelope{}, err
	}

	envelope := models.Envelope{
		KeyFingerprint: derived.Fingerprint,
		IV:             hex.EncodeToString(baseNonce),
		Salt:           hex.EncodeToString(salt),
	}

	if fields.Identifier != nil && *fields.Identifier != "" {
		ct, encErr := v.cipher.Encrypt(*fields.Identifier, derived.Key, crypto.DeriveFieldNonce(baseNonce, fieldIdentifier))
		if encErr != nil {
			return models.Envelope{}, encErr
		}
		envelope.EncryptedIdentifier = &ct
	}

	value, err := v.cipher.Encrypt(fields.SecretValue, derived.Key, crypto.DeriveFieldNonce(baseNonce, fieldSecretValue))
	if err != nil {
		return models.Envelope{}, err
	}
	envelope.EncryptedSecretValue = value

	if fields.Notes != nil && *fields.Notes != "" {
		ct, encErr := v.cipher.Encrypt(*fields.Notes, derived.Key, crypto.DeriveFieldNonce(baseNonce, fieldNotes))
		if encErr != nil {
			return models.Envelope{}, encErr
		}
		envelope.EncryptedNotes = &ct
	}

	return envelope, nil
}

// DecryptSecret implements [VaultService]. The key is derived once from the
// envelope's stored salt and its fingerprint compared before any ciphertext
// is touched, so a wrong master password surfaces as
// [ErrInvalidMasterPassword] rather than an AEAD failure.
func (v *vaultService) DecryptSecret(envelope models.Envelope, masterPassword string) (models.SecretFields, error) {
	salt, err := hex.DecodeString(envelope.Salt)
	if err != nil {
		return models.SecretFields{}, fmt.Errorf("%w: malformed record salt", crypto.ErrDerivationFailed)
	}

	derived, err := v.keys.DeriveKey(masterPassword, salt)
	if err != nil {
		return models.SecretFields{}, err
	}
	if subtle.ConstantTimeCompare([]byte(derived.Fingerprint), []byte(envelope.KeyFingerprint)) != 1 {
		return models.SecretFields{}, ErrInvalidMasterPassword
	}

	var fields models.SecretFields

	if envelope.EncryptedIdentifier != nil {
		plaintext, decErr := v.cipher.Decrypt(*envelope.EncryptedIdentifier, derived.Key)
		if decErr != nil {
			return models.SecretFields{}, decErr
		}
		fields.Identifier = &plaintext
	}

	value, err := v.cipher.Decrypt(envelope.EncryptedSecretValue, derived.Key)
	if err != nil {
		return models.SecretFields{}, err
	}
	fields.SecretValue = value

	if envelope.EncryptedNotes != nil {
		plaintext, decErr := v.cipher.Decrypt(*envelope.EncryptedNotes, derived.Key)
		if decErr != nil {
			return models.SecretFields{}, decErr
		}
		fields.Notes = &plaintext
	}

	return fields, nil
}

// CreateSecret implements [VaultService].
func (v *vaultService) CreateSecret(ctx context.Context, userID int64, req models.CreateSecretRequest, masterPassword string) (models.SecretRecord, error) {
	log := logger.FromContext(ctx)

	if err := v.validator.Validate(ctx, req); err != nil {
		return models.SecretRecord{}, err
	}
	if err := v.masterKey.VerifyMasterPassword(ctx, userID, masterPassword); err != nil {
		return models.SecretRecord{}, err
	}

	envelope, err := v.EncryptSecret(req.Fields, masterPassword)
	if err != nil {
		return models.SecretRecord{}, err
	}

	now := time.Now().UTC()
	record := models.SecretRecord{
		ID:          v.uuid.Generate(),
		UserID:      userID,
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsFavorite:  req.IsFavorite,
		Envelope:    envelope,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := v.secrets.Create(ctx, record); err != nil {
		return models.SecretRecord{}, err
	}
	if err := v.snapshot(ctx, record); err != nil {
		return models.SecretRecord{}, err
	}

	log.Info().
		Str("func", "vaultService.CreateSecret").
		Str("secret_id", record.ID).
		Str("kind", string(record.Kind)).
		Msg("secret created")

	return record, nil
}

// GetSecret implements [VaultService].
func (v *vaultService) GetSecret(ctx context.Context, userID int64, secretID, masterPassword string) (models.SecretRecord, models.SecretFields, error) {
	record, err := v.secrets.GetByID(ctx, userID, secretID)
	if err != nil {
		return models.SecretRecord{}, models.SecretFields{}, err
	}

	fields, err := v.DecryptSecret(record.Envelope, masterPassword)
	if err != nil {
		return models.SecretRecord{}, models.SecretFields{}, err
	}

	return record, fields, nil
}

// ListSecrets implements [VaultService]. Envelopes come back intact: listing
// never needs the master password.
func (v *vaultService) ListSecrets(ctx context.Context, userID int64, filter models.SecretFilter) ([]models.SecretRecord, error) {
	return v.secrets.List(ctx, userID, filter)
}

// UpdateSecret implements [VaultService]. The existing envelope is decrypted,
// the changed fields merged in, and everything re-encrypted under a brand-new
// salt, nonce and key before the snapshot is appended.
func (v *vaultService) UpdateSecret(ctx context.Context, userID int64, secretID string, changes models.SecretChanges, masterPassword string) (models.SecretRecord, error) {
	log := logger.FromContext(ctx)

	if err := v.validator.Validate(ctx, changes); err != nil {
		return models.SecretRecord{}, err
	}

	record, err := v.secrets.GetByID(ctx, userID, secretID)
	if err != nil {
		return models.SecretRecord{}, err
	}
	if !record.IsActive {
		return models.SecretRecord{}, ErrSecretInactive
	}

	fields, err := v.DecryptSecret(record.Envelope, masterPassword)
	if err != nil {
		return models.SecretRecord{}, err
	}

	if changes.Title != nil {
		record.Title = *changes.Title
	}
	if changes.Description != nil {
		record.Description = *changes.Description
	}
	if changes.Category != nil {
		record.Category = *changes.Category
	}
	if changes.IsFavorite != nil {
		record.IsFavorite = *changes.IsFavorite
	}
	if changes.Identifier != nil {
		fields.Identifier = changes.Identifier
	}
	if changes.SecretValue != nil {
		fields.SecretValue = *changes.SecretValue
	}
	if changes.Notes != nil {
		fields.Notes = changes.Notes
	}

	envelope, err := v.EncryptSecret(fields, masterPassword)
	if err != nil {
		return models.SecretRecord{}, err
	}
	record.Envelope = envelope
	record.UpdatedAt = time.Now().UTC()

	if err := v.secrets.UpdateEnvelope(ctx, record); err != nil {
		return models.SecretRecord{}, err
	}
	if err := v.snapshot(ctx, record); err != nil {
		return models.SecretRecord{}, err
	}

	log.Info().
		Str("func", "vaultService.UpdateSecret").
		Str("secret_id", record.ID).
		Msg("secret updated")

	return record, nil
}

// DeleteSecret implements [VaultService]. Soft delete only; the final
// snapshot carries IsActive=false so the history records the deletion itself.
func (v *vaultService) DeleteSecret(ctx context.Context, userID int64, secretID string) error {
	log := logger.FromContext(ctx)

	record, err := v.secrets.GetByID(ctx, userID, secretID)
	if err != nil {
		return err
	}
	if !record.IsActive {
		return ErrSecretInactive
	}

	if err := v.secrets.SoftDelete(ctx, userID, secretID); err != nil {
		return err
	}

	record.IsActive = false
	record.UpdatedAt = time.Now().UTC()
	if err := v.snapshot(ctx, record); err != nil {
		return err
	}

	log.Info().
		Str("func", "vaultService.DeleteSecret").
		Str("secret_id", secretID).
		Msg("secret soft-deleted")

	return nil
}

// ListVersions implements [VaultService].
func (v *vaultService) ListVersions(ctx context.Context, userID int64, secretID string) ([]models.SecretVersion, error) {
	// Ownership check before touching the history table.
	if _, err := v.secrets.GetByID(ctx, userID, secretID); err != nil {
		return nil, err
	}
	return v.versions.List(ctx, secretID)
}

// RestoreVersion implements [VaultService]. The master password is verified
// against the target snapshot's own fingerprint and salt, because the
// snapshot may predate a master password change.
func (v *vaultService) RestoreVersion(ctx context.Context, userID int64, secretID string, targetVersion int64, masterPassword string) (models.SecretRecord, error) {
	log := logger.FromContext(ctx)

	record, err := v.secrets.GetByID(ctx, userID, secretID)
	if err != nil {
		return models.SecretRecord{}, err
	}
	if !record.IsActive {
		return models.SecretRecord{}, ErrSecretInactive
	}

	snapshot, err := v.versions.Get(ctx, secretID, targetVersion)
	if err != nil {
		return models.SecretRecord{}, err
	}

	fields, err := v.DecryptSecret(snapshot.Envelope, masterPassword)
	if err != nil {
		return models.SecretRecord{}, err
	}

	envelope, err := v.EncryptSecret(fields, masterPassword)
	if err != nil {
		return models.SecretRecord{}, err
	}

	record.Kind = snapshot.Kind
	record.Title = snapshot.Title
	record.Description = snapshot.Description
	record.Category = snapshot.Category
	record.IsFavorite = snapshot.IsFavorite
	record.Envelope = envelope
	record.UpdatedAt = time.Now().UTC()

	if err := v.secrets.UpdateEnvelope(ctx, record); err != nil {
		return models.SecretRecord{}, err
	}
	if err := v.snapshot(ctx, record); err != nil {
		return models.SecretRecord{}, err
	}

	log.Info().
		Str("func", "vaultService.RestoreVersion").
		Str("secret_id", secretID).
		Int64("restored_from", targetVersion).
		Msg("secret restored from version snapshot")

	return record, nil
}

// snapshot appends one version row mirroring the record's current state.
func (v *vaultService) snapshot(ctx context.Context, record models.SecretRecord) error {
	_, err := v.versions.Append(ctx, models.SecretVersion{
		ID:          v.uuid.Generate(),
		SecretID:    record.ID,
		UserID:      record.UserID,
		Kind:        record.Kind,
		Title:       record.Title,
		Description: record.Description,
		Category:    record.Category,
		IsFavorite:  record.IsFavorite,
		Envelope:    record.Envelope,
		IsActive:    record.IsActive,
		CreatedAt:   time.Now().UTC(),
	})
	return err
}
