package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle         = errors.New("title is required")
	ErrEmptySecretValue   = errors.New("secret value is required")
	ErrInvalidKind        = errors.New("invalid secret kind")
	ErrNoFieldsToUpdate   = errors.New("at least one field must be provided for update")
	ErrWeakMasterPassword = errors.New("master password must be at least 8 characters")
)
