// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gui Benedito

// Package crypto implements the cryptographic core of the vault engine:
// password-based key derivation, authenticated per-field encryption, and
// master-password verification. It knows nothing about the database, the
// network or users. It turns plaintext and key material into opaque
// envelopes and back.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mocks.go -package=mock

import "github.com/gui-benedito/go-secret-vault/models"

// DerivedKey is the output of a single key derivation: the raw 32-byte key
// and the hex SHA-256 fingerprint that is safe to persist.
type DerivedKey struct {
	// Key is the 256-bit symmetric key. Never persisted, never logged.
	Key []byte

	// Fingerprint is hex(SHA-256(Key)), 64 hex chars. Stored so future
	// derivations can cheaply confirm "same password, same salt" without
	// keeping the key around.
	Fingerprint string
}

// KeyDerivationService turns a master password plus salt into a symmetric
// key and a verifiable fingerprint, and generates fresh salts and nonces.
//
// Derivation is deterministic: identical (password, salt) inputs always
// yield the identical key and fingerprint.
type KeyDerivationService interface {
	// DeriveKey derives a 256-bit key from password and a 32-byte salt using
	// Argon2id, and computes its fingerprint. Returns an error wrapping
	// [ErrDerivationFailed] if the salt has the wrong length.
	DeriveKey(password string, salt []byte) (DerivedKey, error)

	// GenerateSalt returns 32 cryptographically random bytes.
	GenerateSalt() ([]byte, error)

	// GenerateNonce returns 16 cryptographically random bytes sized for the
	// cipher layer.
	GenerateNonce() ([]byte, error)
}

// CipherService performs authenticated encryption of single opaque strings
// under a raw 256-bit key. Every ciphertext is bound to a fixed
// implementation-wide associated-data tag so envelopes cannot be replayed
// across unrelated contexts.
type CipherService interface {
	// Encrypt seals plaintext under key with the given 16-byte nonce and
	// returns the envelope: hex(nonce) ‖ hex(tag) ‖ hex(ciphertext).
	// An empty plaintext short-circuits to the empty envelope; absent
	// fields never occupy a ciphertext slot.
	Encrypt(plaintext string, key, nonce []byte) (models.CipherText, error)

	// Decrypt reverses Encrypt by positional slicing of the envelope.
	// A malformed envelope or a tag mismatch returns an error wrapping
	// [ErrAuthenticationFailed]; the caller must map it to the same
	// user-facing message as a wrong master password.
	Decrypt(envelope models.CipherText, key []byte) (string, error)
}

// MasterSecretAuthenticator verifies a supplied master password against the
// stored fingerprint and salt without ever reconstructing the password.
type MasterSecretAuthenticator interface {
	// Verify re-derives the key from password and the hex-encoded stored
	// salt, then compares the resulting fingerprint to the stored one in
	// constant time. Returns false (not an error) on mismatch; errors are
	// reserved for derivation failures such as a malformed salt.
	Verify(password, storedFingerprint, storedSalt string) (bool, error)
}
