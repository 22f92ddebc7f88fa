package models

import "time"

// MasterKeyRecord stores the verification material for a user's master
// password: the hex-encoded salt used for key derivation and the SHA-256
// fingerprint of the derived key. The derived key itself is never persisted.
//
// Invariant: Salt and KeyFingerprint are always written together. A record
// with only one of them is invalid, and a password change regenerates both.
type MasterKeyRecord struct {
	UserID int64 `json:"userId"`

	// KeyFingerprint is the hex-encoded SHA-256 hash of the 32-byte derived
	// key (64 hex chars). Used to confirm a supplied master password without
	// storing the key.
	KeyFingerprint string `json:"keyFingerprint"`

	// Salt is the hex-encoded 32-byte random salt (64 hex chars) fed into
	// the key derivation function together with the master password.
	Salt string `json:"salt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsConfigured reports whether the record carries complete key material.
func (m MasterKeyRecord) IsConfigured() bool {
	return m.KeyFingerprint != "" && m.Salt != ""
}

// TableName returns the name of the database table
// associated with the MasterKeyRecord model.
func (m MasterKeyRecord) TableName() string {
	return "master_keys"
}
