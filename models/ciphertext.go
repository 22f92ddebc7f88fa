package models

// CipherText is an opaque encrypted field value as persisted in the database
// and embedded in backup artifacts. The layout is a single hex string:
// IV (32 hex chars) followed by the GCM tag (32 hex chars) followed by the
// ciphertext. Only the crypto layer knows how to slice it apart.
type CipherText string
