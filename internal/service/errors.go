package service

import "errors"

// Sentinel errors returned by the engine's service layer. Callers should use
// [errors.Is] to match against these values and [UserMessage] to translate
// them for end users.
var (
	// ErrMasterKeyNotSet is returned when an operation requires a master
	// password but the user never set one.
	ErrMasterKeyNotSet = errors.New("master password is not set")

	// ErrInvalidMasterPassword is returned when the supplied master password
	// fails the fingerprint check. An expected user-facing condition, never
	// logged as an anomaly.
	ErrInvalidMasterPassword = errors.New("invalid master password")

	// ErrCorruptArtifact is returned when a backup artifact decrypts
	// successfully but its JSON payload is malformed or missing required
	// fields, which implies tampering or truncation rather than a wrong
	// password.
	ErrCorruptArtifact = errors.New("backup artifact is corrupted")

	// ErrUnsupportedBackupFormat is returned when an imported backup
	// declares a format version this build does not understand.
	ErrUnsupportedBackupFormat = errors.New("unsupported backup format version")

	// ErrSecretInactive is returned when a mutation targets a soft-deleted
	// secret. Soft-deleted is terminal for the live record.
	ErrSecretInactive = errors.New("secret is deleted")
)

// Password generator errors.
var (
	ErrLengthTooShort     = errors.New("password length must be at least 8")
	ErrLengthTooLong      = errors.New("password length must be at most 128")
	ErrNoCharacterTypes   = errors.New("at least one character type must be selected")
	ErrLengthInsufficient = errors.New("password length must cover every selected character type")
)
