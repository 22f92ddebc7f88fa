// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gui Benedito

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"

	"github.com/gui-benedito/go-secret-vault/models"
)

// envelopeContext is the fixed associated-data tag bound into every
// per-secret encryption. It domain-separates vault envelopes from any other
// ciphertext a holder of the same key material might produce.
const envelopeContext = "go-secret-vault/envelope/v1"

// Envelope segment lengths in hex characters. Decryption slices the envelope
// positionally, so both sides rely on these being fixed.
const (
	tagSize   = 16 // GCM tag, bytes
	ivHexLen  = NonceSize * 2
	tagHexLen = tagSize * 2
)

// cipherService is the private implementation of [CipherService]. It uses
// AES-256-GCM with a 16-byte nonce and a 16-byte authentication tag.
type cipherService struct{}

// NewCipherService constructs a [CipherService].
func NewCipherService() CipherService {
	return &cipherService{}
}

// Encrypt implements [CipherService]. The returned envelope is a single hex
// string: nonce (32 hex chars) ‖ tag (32 hex chars) ‖ ciphertext. An empty
// plaintext returns the empty envelope without touching the cipher.
func (c *cipherService) Encrypt(plaintext string, key, nonce []byte) (models.CipherText, error) {
	if plaintext == "" {
		return "", nil
	}

	gcm, err := newGCM(key, len(nonce))
	if err != nil {
		return "", err
	}

	// Seal appends the tag to the ciphertext; the envelope layout wants
	// nonce ‖ tag ‖ ciphertext, so split the tag back off.
	sealed := gcm.Seal(nil, nonce, []byte(plaintext), []byte(envelopeContext))
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	envelope := hex.EncodeToString(nonce) + hex.EncodeToString(tag) + hex.EncodeToString(ct)
	return models.CipherText(envelope), nil
}

// Decrypt implements [CipherService]. It re-derives nonce and tag by
// positional slicing of the envelope, then opens the ciphertext. A malformed
// segment and a tag mismatch both report [ErrAuthenticationFailed].
func (c *cipherService) Decrypt(envelope models.CipherText, key []byte) (string, error) {
	raw := string(envelope)
	if len(raw) < ivHexLen+tagHexLen {
		return "", fmt.Errorf("%w: envelope too short", ErrAuthenticationFailed)
	}

	nonce, err := hex.DecodeString(raw[:ivHexLen])
	if err != nil {
		return "", fmt.Errorf("%w: malformed nonce segment", ErrAuthenticationFailed)
	}
	tag, err := hex.DecodeString(raw[ivHexLen : ivHexLen+tagHexLen])
	if err != nil {
		return "", fmt.Errorf("%w: malformed tag segment", ErrAuthenticationFailed)
	}
	ct, err := hex.DecodeString(raw[ivHexLen+tagHexLen:])
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext segment", ErrAuthenticationFailed)
	}

	gcm, err := newGCM(key, len(nonce))
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, append(ct, tag...), []byte(envelopeContext))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	return string(plaintext), nil
}

// newGCM builds an AES-GCM AEAD for the given key and nonce length.
func newGCM(key []byte, nonceLen int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, nonceLen)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
