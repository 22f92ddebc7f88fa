package crypto

import "errors"

// Sentinel errors returned by the cryptographic core. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrDerivationFailed is returned when the key derivation function is
	// given bad input (e.g. a salt of the wrong length). Fatal, never
	// retried.
	ErrDerivationFailed = errors.New("key derivation failed")

	// ErrAuthenticationFailed is returned when AEAD decryption fails: the
	// authentication tag does not verify or the envelope is malformed.
	// Internally distinct from a wrong master password, but both must be
	// presented to users with the same generic message to avoid acting as
	// a padding/tag oracle.
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
)
