// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gui Benedito

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Fixed sizes of the key material handled by the derivation service.
const (
	// SaltSize is the length in bytes of every derivation salt.
	SaltSize = 32

	// NonceSize is the length in bytes of every cipher nonce.
	NonceSize = 16

	// KeySize is the length in bytes of every derived symmetric key.
	KeySize = 32
)

// keyDerivationService is the private implementation of [KeyDerivationService].
type keyDerivationService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target without touching call sites.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyDerivationService constructs a [KeyDerivationService] with the
// Argon2id parameters the vault has always used for per-secret keys:
//   - time cost:   3 passes
//   - memory cost: 64 MiB
//   - parallelism: 1 thread (sequential: deterministic cost across machines)
//   - key length:  32 bytes (256 bits)
func NewKeyDerivationService() KeyDerivationService {
	return &keyDerivationService{
		argonTime:    3,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 1,
		argonKeyLen:  KeySize,
	}
}

// DeriveKey implements [KeyDerivationService]. It derives a 256-bit key from
// password and salt using Argon2id with the parameters stored in the
// receiver, then fingerprints the key with SHA-256. Deterministic: the same
// (password, salt) pair always produces the same [DerivedKey].
func (k *keyDerivationService) DeriveKey(password string, salt []byte) (DerivedKey, error) {
	if len(salt) != SaltSize {
		return DerivedKey{}, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrDerivationFailed, SaltSize, len(salt))
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)

	fingerprint := sha256.Sum256(key)

	return DerivedKey{
		Key:         key,
		Fingerprint: hex.EncodeToString(fingerprint[:]),
	}, nil
}

// GenerateSalt implements [KeyDerivationService]. It reads 32 random bytes
// from the OS CSPRNG. Returns an error if the random read fails.
func (k *keyDerivationService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// GenerateNonce implements [KeyDerivationService]. It reads 16 random bytes
// from the OS CSPRNG. Returns an error if the random read fails.
func (k *keyDerivationService) GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}

// DeriveFieldNonce derives a domain-separated per-field nonce from a record's
// base nonce. Sealing each envelope field under its own sub-nonce avoids
// nonce reuse across the three same-key AEAD calls of one record; the base
// nonce alone is stored at the record level, and each ciphertext embeds the
// sub-nonce it was sealed with.
func DeriveFieldNonce(base []byte, field string) []byte {
	h := sha256.New()
	h.Write(base)
	h.Write([]byte(field))
	return h.Sum(nil)[:NonceSize]
}
