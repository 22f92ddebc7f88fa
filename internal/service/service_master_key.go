package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gui-benedito/go-secret-vault/internal/crypto"
	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/internal/validators"
	"github.com/gui-benedito/go-secret-vault/models"
)

// masterKeyService is the private implementation of [MasterKeyService].
type masterKeyService struct {
	keys          crypto.KeyDerivationService
	authenticator crypto.MasterSecretAuthenticator
	masterKeys    store.MasterKeyRepository

	logger *logger.Logger
}

// NewMasterKeyService constructs a [MasterKeyService].
func NewMasterKeyService(
	keys crypto.KeyDerivationService,
	authenticator crypto.MasterSecretAuthenticator,
	masterKeys store.MasterKeyRepository,
	logger *logger.Logger,
) MasterKeyService {
	return &masterKeyService{
		keys:          keys,
		authenticator: authenticator,
		masterKeys:    masterKeys,
		logger:        logger,
	}
}

// SetMasterPassword implements [MasterKeyService]. On change, the current
// password must verify first; salt and fingerprint are regenerated together
// in every case, never incrementally.
func (m *masterKeyService) SetMasterPassword(ctx context.Context, userID int64, currentPassword, newPassword string) (models.MasterKeyRecord, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidateMasterPassword(newPassword); err != nil {
		return models.MasterKeyRecord{}, err
	}

	existing, err := m.masterKeys.Get(ctx, userID)
	switch {
	case err == nil:
		ok, verifyErr := m.authenticator.Verify(currentPassword, existing.KeyFingerprint, existing.Salt)
		if verifyErr != nil {
			return models.MasterKeyRecord{}, verifyErr
		}
		if !ok {
			return models.MasterKeyRecord{}, ErrInvalidMasterPassword
		}
	case errors.Is(err, store.ErrMasterKeyNotFound):
		// First set: nothing to verify against.
	default:
		return models.MasterKeyRecord{}, err
	}

	salt, err := m.keys.GenerateSalt()
	if err != nil {
		return models.MasterKeyRecord{}, fmt.Errorf("generating master key salt: %w", err)
	}

	derived, err := m.keys.DeriveKey(newPassword, salt)
	if err != nil {
		return models.MasterKeyRecord{}, err
	}

	now := time.Now().UTC()
	record := models.MasterKeyRecord{
		UserID:         userID,
		KeyFingerprint: derived.Fingerprint,
		Salt:           hex.EncodeToString(salt),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if existing.IsConfigured() {
		record.CreatedAt = existing.CreatedAt
	}

	if err := m.masterKeys.Upsert(ctx, record); err != nil {
		return models.MasterKeyRecord{}, err
	}

	log.Info().
		Str("func", "masterKeyService.SetMasterPassword").
		Int64("user_id", userID).
		Str("key_fingerprint", record.KeyFingerprint).
		Msg("master key record written")

	return record, nil
}

// VerifyMasterPassword implements [MasterKeyService].
func (m *masterKeyService) VerifyMasterPassword(ctx context.Context, userID int64, password string) error {
	record, err := m.masterKeys.Get(ctx, userID)
	if errors.Is(err, store.ErrMasterKeyNotFound) {
		return ErrMasterKeyNotSet
	}
	if err != nil {
		return err
	}

	ok, err := m.authenticator.Verify(password, record.KeyFingerprint, record.Salt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidMasterPassword
	}

	return nil
}
