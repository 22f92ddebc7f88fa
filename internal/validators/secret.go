package validators

import (
	"context"

	"github.com/gui-benedito/go-secret-vault/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldTitle targets the plaintext title of a secret record.
	FieldTitle = "title"

	// FieldKind targets the record kind (credential or note).
	FieldKind = "kind"

	// FieldSecretValue targets the mandatory secret value of a record.
	FieldSecretValue = "secret_value"
)

// allowedKinds is the exhaustive set of SecretKind values accepted by the
// validator. Any kind not present here is considered invalid.
var allowedKinds = []models.SecretKind{
	models.KindCredential,
	models.KindNote,
}

// SecretValidator implements [Validator] for the vault request models:
// CreateSecretRequest, SecretChanges, and raw master password strings.
// It supports both value and pointer receivers for every model type and
// allows optional field-level scoping via variadic field name arguments.
type SecretValidator struct {
}

// NewSecretValidator constructs a new SecretValidator
// and returns it as the Validator interface.
func NewSecretValidator() Validator {
	return &SecretValidator{}
}

// Validate dispatches validation to the appropriate type-specific method.
func (v *SecretValidator) Validate(ctx context.Context, value any, fields ...string) error {
	switch typed := value.(type) {
	case models.CreateSecretRequest:
		return v.validateCreate(typed, fields...)
	case *models.CreateSecretRequest:
		return v.validateCreate(*typed, fields...)
	case models.SecretChanges:
		return v.validateChanges(typed)
	case *models.SecretChanges:
		return v.validateChanges(*typed)
	default:
		return ErrUnsupportedType
	}
}

func (v *SecretValidator) validateCreate(req models.CreateSecretRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldKind, FieldSecretValue}
	}

	for _, field := range fields {
		switch field {
		case FieldTitle:
			if req.Title == "" {
				return ErrEmptyTitle
			}
		case FieldKind:
			if !isAllowedKind(req.Kind) {
				return ErrInvalidKind
			}
		case FieldSecretValue:
			if req.Fields.SecretValue == "" {
				return ErrEmptySecretValue
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SecretValidator) validateChanges(changes models.SecretChanges) error {
	if changes.Title == nil && changes.Description == nil && changes.Category == nil &&
		changes.IsFavorite == nil && changes.Identifier == nil &&
		changes.SecretValue == nil && changes.Notes == nil {
		return ErrNoFieldsToUpdate
	}

	if changes.SecretValue != nil && *changes.SecretValue == "" {
		return ErrEmptySecretValue
	}
	if changes.Title != nil && *changes.Title == "" {
		return ErrEmptyTitle
	}

	return nil
}

func isAllowedKind(kind models.SecretKind) bool {
	for _, allowed := range allowedKinds {
		if kind == allowed {
			return true
		}
	}
	return false
}

// ValidateMasterPassword enforces the minimum strength rule for a new
// master password.
func ValidateMasterPassword(password string) error {
	if len(password) < 8 {
		return ErrWeakMasterPassword
	}
	return nil
}
