package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gui-benedito/go-secret-vault/models"
)

func testKeyNonce() ([]byte, []byte) {
	key := bytes.Repeat([]byte{0x2A}, KeySize)
	nonce := bytes.Repeat([]byte{0x11}, NonceSize)
	return key, nonce
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := NewCipherService()
	key, nonce := testKeyNonce()

	plaintexts := []string{
		"Sup3r$ecret",
		"a",
		strings.Repeat("long payload ", 100),
		"unicode: пароль 密码 ľúbivý",
	}

	for _, p := range plaintexts {
		envelope, err := svc.Encrypt(p, key, nonce)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", p, err)
		}

		got, err := svc.Decrypt(envelope, key)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if got != p {
			t.Fatalf("round-trip mismatch: got %q, want %q", got, p)
		}
	}
}

func TestEncrypt_EnvelopeLayout(t *testing.T) {
	svc := NewCipherService()
	key, nonce := testKeyNonce()

	envelope, err := svc.Encrypt("payload", key, nonce)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	raw := string(envelope)
	if len(raw) <= ivHexLen+tagHexLen {
		t.Fatalf("envelope too short: %d chars", len(raw))
	}
	// The nonce segment is a positional hex slice at the front.
	if raw[:ivHexLen] != "11111111111111111111111111111111" {
		t.Fatalf("nonce segment = %q, want hex of the supplied nonce", raw[:ivHexLen])
	}
}

func TestEncrypt_EmptyPlaintextShortCircuits(t *testing.T) {
	svc := NewCipherService()
	key, nonce := testKeyNonce()

	envelope, err := svc.Encrypt("", key, nonce)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if envelope != "" {
		t.Fatalf("expected empty envelope for empty plaintext, got %q", envelope)
	}
}

func TestDecrypt_WrongKeyFailsAuthentication(t *testing.T) {
	svc := NewCipherService()
	key, nonce := testKeyNonce()

	envelope, err := svc.Encrypt("payload", key, nonce)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	wrongKey := bytes.Repeat([]byte{0x2B}, KeySize)
	_, err = svc.Decrypt(envelope, wrongKey)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestDecrypt_TamperedCiphertextFailsAuthentication(t *testing.T) {
	svc := NewCipherService()
	key, nonce := testKeyNonce()

	envelope, err := svc.Encrypt("payload", key, nonce)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	raw := []byte(envelope)
	last := len(raw) - 1
	if raw[last] == 'f' {
		raw[last] = '0'
	} else {
		raw[last] = 'f'
	}

	_, err = svc.Decrypt(models.CipherText(raw), key)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestDecrypt_MalformedEnvelopes(t *testing.T) {
	svc := NewCipherService()
	key, _ := testKeyNonce()

	cases := []models.CipherText{
		"",
		"deadbeef",
		models.CipherText(strings.Repeat("z", ivHexLen+tagHexLen+8)),
	}

	for _, envelope := range cases {
		_, err := svc.Decrypt(envelope, key)
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("Decrypt(%q): expected ErrAuthenticationFailed, got %v", envelope, err)
		}
	}
}
