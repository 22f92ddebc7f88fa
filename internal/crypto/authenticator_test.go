package crypto

import (
	"encoding/hex"
	"errors"
	"testing"
)

func TestVerify_CorrectAndWrongPassword(t *testing.T) {
	keys := NewKeyDerivationService()
	auth := NewMasterSecretAuthenticator(keys)

	salt, err := keys.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	derived, err := keys.DeriveKey("correct-horse", salt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	saltHex := hex.EncodeToString(salt)

	ok, err := auth.Verify("correct-horse", derived.Fingerprint, saltHex)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected correct password to verify")
	}

	ok, err = auth.Verify("wrong-horse", derived.Fingerprint, saltHex)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestVerify_MalformedSalt(t *testing.T) {
	auth := NewMasterSecretAuthenticator(NewKeyDerivationService())

	_, err := auth.Verify("pw", "fingerprint", "not-hex!")
	if !errors.Is(err, ErrDerivationFailed) {
		t.Fatalf("expected ErrDerivationFailed, got %v", err)
	}
}
