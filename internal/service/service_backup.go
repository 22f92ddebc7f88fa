package service

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/internal/utils"
	"github.com/gui-benedito/go-secret-vault/models"
)

// Backup codec parameters for format "1.0": PBKDF2-SHA256 over the master
// password with a per-artifact random salt, AES-256-CBC with PKCS#7 padding.
// These are versioned independently of the per-secret Argon2id/GCM scheme so
// either can change without invalidating the other's stored data.
const (
	backupKDFIterations = 100000
	backupKeySize       = 32
	backupSaltSize      = 32
)

// backupService is the private implementation of [BackupService].
type backupService struct {
	masterKey MasterKeyService
	users     store.UserRepository
	secrets   store.SecretRepository
	versions  store.SecretVersionRepository
	uuid      *utils.UUIDGenerator

	logger *logger.Logger
}

// NewBackupService constructs a [BackupService].
func NewBackupService(
	masterKey MasterKeyService,
	users store.UserRepository,
	secrets store.SecretRepository,
	versions store.SecretVersionRepository,
	logger *logger.Logger,
) BackupService {
	return &backupService{
		masterKey: masterKey,
		users:     users,
		secrets:   secrets,
		versions:  versions,
		uuid:      utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// Export implements [BackupService]. Active envelopes are embedded verbatim,
// still sealed under their own per-record keys; only the outer blob is
// encrypted here.
func (b *backupService) Export(ctx context.Context, userID int64, masterPassword string) (string, error) {
	log := logger.FromContext(ctx)

	if err := b.masterKey.VerifyMasterPassword(ctx, userID, masterPassword); err != nil {
		return "", err
	}

	user, err := b.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	records, err := b.secrets.List(ctx, userID, models.SecretFilter{})
	if err != nil {
		return "", err
	}
	versions, err := b.versions.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	backup := models.Backup{
		Version:     models.BackupFormatVersion,
		Timestamp:   time.Now().UTC(),
		User:        user,
		Credentials: make([]models.SecretRecord, 0, len(records)),
		Versions:    versions,
		Notes:       make([]models.SecretRecord, 0),
	}
	for _, record := range records {
		switch record.Kind {
		case models.KindNote:
			backup.Notes = append(backup.Notes, record)
		default:
			backup.Credentials = append(backup.Credentials, record)
		}
	}
	backup.Metadata = models.BackupMetadata{
		TotalCredentials: len(backup.Credentials),
		TotalVersions:    len(backup.Versions),
		TotalNotes:       len(backup.Notes),
	}

	// Two-pass marshal: the metadata records the size of the document it is
	// itself part of, so measure first, then serialize with the size filled in.
	probe, err := json.Marshal(backup)
	if err != nil {
		return "", fmt.Errorf("serializing backup: %w", err)
	}
	backup.Metadata.BackupSize = len(probe)

	payload, err := json.Marshal(backup)
	if err != nil {
		return "", fmt.Errorf("serializing backup: %w", err)
	}

	artifact, err := sealBackup(payload, masterPassword)
	if err != nil {
		return "", err
	}

	log.Info().
		Str("func", "backupService.Export").
		Int64("user_id", userID).
		Int("total_credentials", backup.Metadata.TotalCredentials).
		Int("total_versions", backup.Metadata.TotalVersions).
		Int("total_notes", backup.Metadata.TotalNotes).
		Msg("backup exported")

	return artifact, nil
}

// Import implements [BackupService]. Decryption failure (including bad
// padding) maps to [ErrInvalidMasterPassword]; payloads that decrypt but do
// not parse as a complete backup document map to [ErrCorruptArtifact].
func (b *backupService) Import(artifact, masterPassword string) (*models.Backup, error) {
	payload, err := openBackup(artifact, masterPassword)
	if err != nil {
		return nil, err
	}

	var backup models.Backup
	if err := json.Unmarshal(payload, &backup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}

	if backup.Version == "" || backup.Credentials == nil || backup.Notes == nil || backup.Versions == nil {
		return nil, fmt.Errorf("%w: missing required fields", ErrCorruptArtifact)
	}
	if backup.Version != models.BackupFormatVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackupFormat, backup.Version)
	}

	return &backup, nil
}

// Restore implements [BackupService]. Every restored secret gets a fresh id
// with its envelope preserved verbatim; version rows are re-pointed through
// the id-remapping table built during the insert pass, and rows whose
// original record id has no restored secret are dropped.
func (b *backupService) Restore(ctx context.Context, userID int64, backup *models.Backup) (models.RestoreResult, error) {
	log := logger.FromContext(ctx)

	var result models.RestoreResult
	idRemap := make(map[string]string, len(backup.Credentials)+len(backup.Notes))

	for _, record := range append(append([]models.SecretRecord{}, backup.Credentials...), backup.Notes...) {
		oldID := record.ID
		record.ID = b.uuid.Generate()
		record.UserID = userID

		if err := b.secrets.Create(ctx, record); err != nil {
			return result, err
		}
		idRemap[oldID] = record.ID
		result.SecretsRestored++
	}

	for _, version := range backup.Versions {
		newSecretID, ok := idRemap[version.SecretID]
		if !ok {
			result.VersionsDropped++
			continue
		}

		version.ID = b.uuid.Generate()
		version.SecretID = newSecretID
		version.UserID = userID

		if err := b.versions.Insert(ctx, version); err != nil {
			return result, err
		}
		result.VersionsRestored++
	}

	log.Info().
		Str("func", "backupService.Restore").
		Int64("user_id", userID).
		Int("secrets_restored", result.SecretsRestored).
		Int("versions_restored", result.VersionsRestored).
		Int("versions_dropped", result.VersionsDropped).
		Msg("backup restored")

	return result, nil
}

// sealBackup encrypts payload into the format "1.0" artifact:
// base64(SALT(32) ‖ IV(16) ‖ CIPHERTEXT).
func sealBackup(payload []byte, masterPassword string) (string, error) {
	salt := make([]byte, backupSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate backup salt: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate backup iv: %w", err)
	}

	key := pbkdf2.Key([]byte(masterPassword), salt, backupKDFIterations, backupKeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create backup cipher: %w", err)
	}

	padded := padPKCS7(payload, aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	blob := make([]byte, 0, len(salt)+len(iv)+len(ct))
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, ct...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// openBackup reverses sealBackup. Slicing errors and padding failures all
// report [ErrInvalidMasterPassword]: CBC is unauthenticated, so a wrong
// password and a damaged artifact are not reliably distinguishable here.
func openBackup(artifact, masterPassword string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64", ErrInvalidMasterPassword)
	}
	if len(blob) < backupSaltSize+aes.BlockSize+aes.BlockSize {
		return nil, fmt.Errorf("%w: artifact too short", ErrInvalidMasterPassword)
	}

	salt := blob[:backupSaltSize]
	iv := blob[backupSaltSize : backupSaltSize+aes.BlockSize]
	ct := blob[backupSaltSize+aes.BlockSize:]

	if len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: truncated ciphertext", ErrInvalidMasterPassword)
	}

	key := pbkdf2.Key([]byte(masterPassword), salt, backupKDFIterations, backupKeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create backup cipher: %w", err)
	}

	padded := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ct)

	payload, err := unpadPKCS7(padded, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMasterPassword, err)
	}

	return payload, nil
}

func padPKCS7(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padLen)
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padLen], nil
}
