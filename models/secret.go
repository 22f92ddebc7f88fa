package models

import "time"

// SecretKind distinguishes the two record flavours the vault stores.
type SecretKind string

const (
	// KindCredential is a login credential: site/app identifier plus password.
	KindCredential SecretKind = "credential"

	// KindNote is a free-text secure note.
	KindNote SecretKind = "note"
)

// Envelope is the encrypted portion of a secret record. All three ciphertext
// fields were produced by one encryption call sharing one derived key; each
// carries its own IV inline while the record-level IV stores the base nonce
// the per-field nonces were derived from.
type Envelope struct {
	// EncryptedIdentifier is the ciphertext of the login/site identifier.
	// Nil when the plaintext field was absent.
	EncryptedIdentifier *CipherText `json:"encryptedIdentifier"`

	// EncryptedSecretValue is the ciphertext of the secret value itself
	// (the password or the note body). Always present.
	EncryptedSecretValue CipherText `json:"encryptedSecretValue"`

	// EncryptedNotes is the ciphertext of the free-text notes attached to
	// the record. Nil when the plaintext field was absent.
	EncryptedNotes *CipherText `json:"encryptedNotes"`

	// KeyFingerprint is the hex SHA-256 of the derived key, checked before
	// any decryption attempt so a wrong master password is reported
	// unambiguously instead of as an AEAD failure.
	KeyFingerprint string `json:"keyFingerprint"`

	// IV is the hex-encoded 16-byte base nonce for this record (32 hex chars).
	IV string `json:"iv"`

	// Salt is the hex-encoded 32-byte salt for this record (64 hex chars).
	Salt string `json:"salt"`
}

// SecretRecord is one stored secret: plaintext metadata, the encryption
// envelope, and lifecycle flags. Deletion is always soft; IsActive=false is
// terminal from the live record's perspective while versions stay queryable.
type SecretRecord struct {
	ID     string     `json:"id"`
	UserID int64      `json:"userId"`
	Kind   SecretKind `json:"kind"`

	// Plaintext metadata, stored unencrypted.
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsFavorite  bool   `json:"isFavorite"`

	Envelope

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the SecretRecord model.
func (s SecretRecord) TableName() string {
	return "secrets"
}

// SecretFields is the plaintext projection of an envelope: what the caller
// hands in on create/update and gets back on decrypt.
type SecretFields struct {
	// Identifier is the login/site identifier. Nil means absent.
	Identifier *string

	// SecretValue is the password or note body. Mandatory.
	SecretValue string

	// Notes is the attached free text. Nil means absent.
	Notes *string
}

// SecretChanges lists the fields of a secret a caller wants to change.
// Nil pointers mean "keep the current value"; the update path decrypts the
// existing envelope, merges these in and re-encrypts everything.
type SecretChanges struct {
	Title       *string
	Description *string
	Category    *string
	IsFavorite  *bool

	Identifier  *string
	SecretValue *string
	Notes       *string
}

// CreateSecretRequest carries everything needed to create a secret record.
type CreateSecretRequest struct {
	Kind        SecretKind
	Title       string
	Description string
	Category    string
	IsFavorite  bool
	Fields      SecretFields
}

// SecretFilter narrows a secret listing. Zero values mean "no restriction";
// soft-deleted records are excluded unless IncludeInactive is set.
type SecretFilter struct {
	Kind            SecretKind
	Category        string
	FavoritesOnly   bool
	IncludeInactive bool
}
