package service

import (
	"errors"

	"github.com/gui-benedito/go-secret-vault/internal/crypto"
	"github.com/gui-benedito/go-secret-vault/internal/store"
)

// Human-readable messages for the error conditions the engine surfaces.
// A wrong master password and a failed ciphertext authentication share one
// message on purpose: distinguishing them would tell an attacker whether a
// guessed password was wrong or a ciphertext was tampered with. Internal
// logs retain the distinction via the underlying sentinel.
const (
	MsgWrongPasswordOrCorrupted = "wrong master password or corrupted data"
	MsgMasterKeyNotSet          = "master password is not set"
	MsgCorruptArtifact          = "backup file is corrupted or truncated"
	MsgSecretNotFound           = "secret not found"
	MsgVersionNotFound          = "version not found"
	MsgInternalError            = "internal error"
)

// UserMessage maps an engine error to the message safe to show end users.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMasterPassword),
		errors.Is(err, crypto.ErrAuthenticationFailed):
		return MsgWrongPasswordOrCorrupted
	case errors.Is(err, ErrMasterKeyNotSet):
		return MsgMasterKeyNotSet
	case errors.Is(err, ErrCorruptArtifact),
		errors.Is(err, ErrUnsupportedBackupFormat):
		return MsgCorruptArtifact
	case errors.Is(err, store.ErrSecretNotFound),
		errors.Is(err, ErrSecretInactive):
		return MsgSecretNotFound
	case errors.Is(err, store.ErrVersionNotFound):
		return MsgVersionNotFound
	default:
		return MsgInternalError
	}
}
