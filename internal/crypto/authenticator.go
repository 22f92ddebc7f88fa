// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gui Benedito

package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// masterSecretAuthenticator is the private implementation of
// [MasterSecretAuthenticator].
type masterSecretAuthenticator struct {
	keys KeyDerivationService
}

// NewMasterSecretAuthenticator constructs a [MasterSecretAuthenticator] on
// top of the given derivation service.
func NewMasterSecretAuthenticator(keys KeyDerivationService) MasterSecretAuthenticator {
	return &masterSecretAuthenticator{keys: keys}
}

// Verify implements [MasterSecretAuthenticator]. It re-derives the key from
// password and the stored salt and compares the resulting fingerprint to the
// stored one in constant time. The comparison runs over the hex strings, so
// both sides have equal length and the compare cannot leak a prefix.
func (a *masterSecretAuthenticator) Verify(password, storedFingerprint, storedSalt string) (bool, error) {
	salt, err := hex.DecodeString(storedSalt)
	if err != nil {
		return false, fmt.Errorf("%w: malformed stored salt", ErrDerivationFailed)
	}

	derived, err := a.keys.DeriveKey(password, salt)
	if err != nil {
		return false, err
	}

	match := subtle.ConstantTimeCompare([]byte(derived.Fingerprint), []byte(storedFingerprint)) == 1
	return match, nil
}
