package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gui-benedito/go-secret-vault/internal/crypto"
	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/internal/mock"
	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/internal/validators"
	"github.com/gui-benedito/go-secret-vault/models"
)

const (
	testUserID         = int64(1)
	testMasterPassword = "correct-horse"
)

// testEngine bundles the services over in-memory fakes with real crypto.
type testEngine struct {
	masterKey MasterKeyService
	vault     VaultService
	backup    BackupService

	users      *fakeUserRepository
	masterKeys *fakeMasterKeyRepository
	secrets    *fakeSecretRepository
	versions   *fakeVersionRepository
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	log := logger.Nop()
	keys := crypto.NewKeyDerivationService()
	cipher := crypto.NewCipherService()
	authenticator := crypto.NewMasterSecretAuthenticator(keys)

	users := newFakeUserRepository()
	masterKeys := newFakeMasterKeyRepository()
	secrets := newFakeSecretRepository()
	versions := newFakeVersionRepository()

	masterKey := NewMasterKeyService(keys, authenticator, masterKeys, log)

	return &testEngine{
		masterKey:  masterKey,
		vault:      NewVaultService(keys, cipher, masterKey, secrets, versions, validators.NewSecretValidator(), log),
		backup:     NewBackupService(masterKey, users, secrets, versions, log),
		users:      users,
		masterKeys: masterKeys,
		secrets:    secrets,
		versions:   versions,
	}
}

// newProvisionedEngine additionally registers the test user and sets the
// master password.
func newProvisionedEngine(t *testing.T) *testEngine {
	t.Helper()

	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.users.EnsureUser(ctx, models.User{
		UserID:    testUserID,
		Email:     "owner@example.com",
		FirstName: "Test",
		LastName:  "Owner",
	}))
	_, err := engine.masterKey.SetMasterPassword(ctx, testUserID, "", testMasterPassword)
	require.NoError(t, err)

	return engine
}

func strPtr(s string) *string { return &s }

func TestVaultService_EncryptDecryptRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	fields := models.SecretFields{
		Identifier:  strPtr("admin@example.com"),
		SecretValue: "Sup3r$ecret",
		Notes:       strPtr("rotate quarterly"),
	}

	envelope, err := engine.vault.EncryptSecret(fields, testMasterPassword)
	require.NoError(t, err)

	assert.Len(t, envelope.Salt, 64)
	assert.Len(t, envelope.IV, 32)
	assert.Len(t, envelope.KeyFingerprint, 64)
	require.NotNil(t, envelope.EncryptedIdentifier)
	require.NotNil(t, envelope.EncryptedNotes)

	decrypted, err := engine.vault.DecryptSecret(envelope, testMasterPassword)
	require.NoError(t, err)
	require.NotNil(t, decrypted.Identifier)
	require.NotNil(t, decrypted.Notes)
	assert.Equal(t, "admin@example.com", *decrypted.Identifier)
	assert.Equal(t, "Sup3r$ecret", decrypted.SecretValue)
	assert.Equal(t, "rotate quarterly", *decrypted.Notes)
}

func TestVaultService_DecryptWrongPassword(t *testing.T) {
	engine := newTestEngine(t)

	envelope, err := engine.vault.EncryptSecret(models.SecretFields{SecretValue: "Sup3r$ecret"}, testMasterPassword)
	require.NoError(t, err)

	_, err = engine.vault.DecryptSecret(envelope, "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidMasterPassword)
	assert.Equal(t, MsgWrongPasswordOrCorrupted, UserMessage(err))
}

func TestVaultService_DecryptTamperedCiphertext(t *testing.T) {
	engine := newTestEngine(t)

	envelope, err := engine.vault.EncryptSecret(models.SecretFields{SecretValue: "Sup3r$ecret"}, testMasterPassword)
	require.NoError(t, err)

	raw := []byte(envelope.EncryptedSecretValue)
	if raw[len(raw)-1] == 'f' {
		raw[len(raw)-1] = '0'
	} else {
		raw[len(raw)-1] = 'f'
	}
	envelope.EncryptedSecretValue = models.CipherText(raw)

	_, err = engine.vault.DecryptSecret(envelope, testMasterPassword)
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	// Tampering and a wrong password collapse to the same user message.
	assert.Equal(t, MsgWrongPasswordOrCorrupted, UserMessage(err))
}

func TestVaultService_AbsentFieldsStayAbsent(t *testing.T) {
	engine := newTestEngine(t)

	envelope, err := engine.vault.EncryptSecret(models.SecretFields{SecretValue: "note body"}, testMasterPassword)
	require.NoError(t, err)
	assert.Nil(t, envelope.EncryptedIdentifier)
	assert.Nil(t, envelope.EncryptedNotes)

	decrypted, err := engine.vault.DecryptSecret(envelope, testMasterPassword)
	require.NoError(t, err)
	assert.Nil(t, decrypted.Identifier)
	assert.Nil(t, decrypted.Notes)
}

func TestVaultService_EmptyOptionalFieldsStayAbsent(t *testing.T) {
	engine := newTestEngine(t)

	// A pointer to "" must behave exactly like a nil pointer: no envelope
	// slot, and the record stays decryptable.
	envelope, err := engine.vault.EncryptSecret(models.SecretFields{
		Identifier:  strPtr(""),
		SecretValue: "Sup3r$ecret",
		Notes:       strPtr(""),
	}, testMasterPassword)
	require.NoError(t, err)
	assert.Nil(t, envelope.EncryptedIdentifier)
	assert.Nil(t, envelope.EncryptedNotes)

	decrypted, err := engine.vault.DecryptSecret(envelope, testMasterPassword)
	require.NoError(t, err)
	assert.Nil(t, decrypted.Identifier)
	assert.Nil(t, decrypted.Notes)
	assert.Equal(t, "Sup3r$ecret", decrypted.SecretValue)
}

func TestVaultService_UpdateWithEmptyIdentifierClearsField(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:  models.KindCredential,
		Title: "email account",
		Fields: models.SecretFields{
			Identifier:  strPtr("admin@example.com"),
			SecretValue: "original-password",
		},
	}, testMasterPassword)
	require.NoError(t, err)

	updated, err := engine.vault.UpdateSecret(ctx, testUserID, record.ID, models.SecretChanges{
		Identifier: strPtr(""),
	}, testMasterPassword)
	require.NoError(t, err)
	assert.Nil(t, updated.EncryptedIdentifier)

	// The stored record must still open with the correct password.
	stored, _, err := engine.vault.GetSecret(ctx, testUserID, record.ID, testMasterPassword)
	require.NoError(t, err)
	fields, err := engine.vault.DecryptSecret(stored.Envelope, testMasterPassword)
	require.NoError(t, err)
	assert.Nil(t, fields.Identifier)
	assert.Equal(t, "original-password", fields.SecretValue)
}

func TestVaultService_PerFieldCiphertextsDiffer(t *testing.T) {
	engine := newTestEngine(t)

	// Same plaintext in every field must still produce distinct ciphertexts:
	// each field is sealed under its own derived sub-nonce.
	envelope, err := engine.vault.EncryptSecret(models.SecretFields{
		Identifier:  strPtr("same-value"),
		SecretValue: "same-value",
		Notes:       strPtr("same-value"),
	}, testMasterPassword)
	require.NoError(t, err)

	assert.NotEqual(t, string(*envelope.EncryptedIdentifier), string(envelope.EncryptedSecretValue))
	assert.NotEqual(t, string(envelope.EncryptedSecretValue), string(*envelope.EncryptedNotes))
	assert.NotEqual(t, string(*envelope.EncryptedIdentifier), string(*envelope.EncryptedNotes))
}

func TestVaultService_CreateSecret(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:     models.KindCredential,
		Title:    "email account",
		Category: "personal",
		Fields: models.SecretFields{
			Identifier:  strPtr("admin@example.com"),
			SecretValue: "Sup3r$ecret",
		},
	}, testMasterPassword)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.True(t, record.IsActive)

	versions, err := engine.vault.ListVersions(ctx, testUserID, record.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, int64(1), versions[0].Version)
}

func TestVaultService_CreateSecretValidation(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	_, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:   models.KindCredential,
		Fields: models.SecretFields{SecretValue: "x"},
	}, testMasterPassword)
	assert.ErrorIs(t, err, validators.ErrEmptyTitle)

	_, err = engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:   models.SecretKind("certificate"),
		Title:  "t",
		Fields: models.SecretFields{SecretValue: "x"},
	}, testMasterPassword)
	assert.ErrorIs(t, err, validators.ErrInvalidKind)
}

func TestVaultService_CreateSecretWrongMasterPassword(t *testing.T) {
	engine := newProvisionedEngine(t)

	_, err := engine.vault.CreateSecret(context.Background(), testUserID, models.CreateSecretRequest{
		Kind:   models.KindNote,
		Title:  "note",
		Fields: models.SecretFields{SecretValue: "body"},
	}, "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidMasterPassword)
}

func TestVaultService_UpdateHistoryNewestFirst(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:  models.KindCredential,
		Title: "email account",
		Fields: models.SecretFields{
			Identifier:  strPtr("admin@example.com"),
			SecretValue: "original-password",
		},
	}, testMasterPassword)
	require.NoError(t, err)

	_, err = engine.vault.UpdateSecret(ctx, testUserID, record.ID, models.SecretChanges{
		SecretValue: strPtr("second-password"),
	}, testMasterPassword)
	require.NoError(t, err)

	_, err = engine.vault.UpdateSecret(ctx, testUserID, record.ID, models.SecretChanges{
		SecretValue: strPtr("third-password"),
	}, testMasterPassword)
	require.NoError(t, err)

	versions, err := engine.vault.ListVersions(ctx, testUserID, record.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, int64(3), versions[0].Version)
	assert.Equal(t, int64(2), versions[1].Version)
	assert.Equal(t, int64(1), versions[2].Version)

	// The oldest snapshot still decrypts to the creation payload.
	original, err := engine.vault.DecryptSecret(versions[2].Envelope, testMasterPassword)
	require.NoError(t, err)
	assert.Equal(t, "original-password", original.SecretValue)
}

func TestVaultService_UpdateReEncryptsEverything(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:   models.KindNote,
		Title:  "note",
		Fields: models.SecretFields{SecretValue: "body"},
	}, testMasterPassword)
	require.NoError(t, err)

	updated, err := engine.vault.UpdateSecret(ctx, testUserID, record.ID, models.SecretChanges{
		Title: strPtr("renamed note"),
	}, testMasterPassword)
	require.NoError(t, err)

	assert.Equal(t, "renamed note", updated.Title)
	assert.NotEqual(t, record.Salt, updated.Salt)
	assert.NotEqual(t, record.IV, updated.IV)
	assert.NotEqual(t, record.EncryptedSecretValue, updated.EncryptedSecretValue)

	fields, err := engine.vault.DecryptSecret(updated.Envelope, testMasterPassword)
	require.NoError(t, err)
	assert.Equal(t, "body", fields.SecretValue)
}

func TestVaultService_DeleteIsTerminal(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:   models.KindNote,
		Title:  "note",
		Fields: models.SecretFields{SecretValue: "body"},
	}, testMasterPassword)
	require.NoError(t, err)

	require.NoError(t, engine.vault.DeleteSecret(ctx, testUserID, record.ID))

	// The delete snapshot records the inactive state.
	versions, err := engine.vault.ListVersions(ctx, testUserID, record.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.False(t, versions[0].IsActive)
	assert.True(t, versions[1].IsActive)

	err = engine.vault.DeleteSecret(ctx, testUserID, record.ID)
	assert.ErrorIs(t, err, ErrSecretInactive)

	_, err = engine.vault.UpdateSecret(ctx, testUserID, record.ID, models.SecretChanges{
		Title: strPtr("resurrected"),
	}, testMasterPassword)
	assert.ErrorIs(t, err, ErrSecretInactive)

	// Soft-deleted records disappear from default listings but not from
	// inactive-inclusive ones.
	active, err := engine.vault.ListSecrets(ctx, testUserID, models.SecretFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := engine.vault.ListSecrets(ctx, testUserID, models.SecretFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestVaultService_RestoreVersion(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:  models.KindCredential,
		Title: "email account",
		Fields: models.SecretFields{
			Identifier:  strPtr("admin@example.com"),
			SecretValue: "original-password",
		},
	}, testMasterPassword)
	require.NoError(t, err)

	_, err = engine.vault.UpdateSecret(ctx, testUserID, record.ID, models.SecretChanges{
		SecretValue: strPtr("rotated-password"),
	}, testMasterPassword)
	require.NoError(t, err)

	restored, err := engine.vault.RestoreVersion(ctx, testUserID, record.ID, 1, testMasterPassword)
	require.NoError(t, err)

	fields, err := engine.vault.DecryptSecret(restored.Envelope, testMasterPassword)
	require.NoError(t, err)
	assert.Equal(t, "original-password", fields.SecretValue)

	// The restore itself appended a snapshot.
	versions, err := engine.vault.ListVersions(ctx, testUserID, record.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 3)
}

func TestVaultService_RestoreVersionNotFound(t *testing.T) {
	engine := newProvisionedEngine(t)
	ctx := context.Background()

	record, err := engine.vault.CreateSecret(ctx, testUserID, models.CreateSecretRequest{
		Kind:   models.KindNote,
		Title:  "note",
		Fields: models.SecretFields{SecretValue: "body"},
	}, testMasterPassword)
	require.NoError(t, err)

	_, err = engine.vault.RestoreVersion(ctx, testUserID, record.ID, 42, testMasterPassword)
	assert.ErrorIs(t, err, store.ErrVersionNotFound)
}

func TestVaultService_GetSecretNotFound(t *testing.T) {
	engine := newProvisionedEngine(t)

	_, _, err := engine.vault.GetSecret(context.Background(), testUserID, "missing-id", testMasterPassword)
	assert.ErrorIs(t, err, store.ErrSecretNotFound)
}

func TestVaultService_EncryptSecretSaltFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKeys := mock.NewMockKeyDerivationService(ctrl)
	mockKeys.EXPECT().GenerateSalt().Return(nil, errors.New("entropy exhausted"))

	svc := NewVaultService(
		mockKeys,
		crypto.NewCipherService(),
		nil,
		newFakeSecretRepository(),
		newFakeVersionRepository(),
		validators.NewSecretValidator(),
		logger.Nop(),
	)

	_, err := svc.EncryptSecret(models.SecretFields{SecretValue: "x"}, testMasterPassword)
	assert.Error(t, err)
}
