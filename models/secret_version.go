package models

import "time"

// SecretVersion is an immutable snapshot of a secret record, captured after
// every create, update and soft-delete. Version numbers are scoped to the
// owning record and strictly increase; a delete snapshot carries
// IsActive=false so no separate tombstone entity is needed.
//
// The SecretID reference is retained even if the live record is later hard
// deleted, which keeps forensic restore possible.
type SecretVersion struct {
	ID       string `json:"id"`
	SecretID string `json:"secretId"`
	UserID   int64  `json:"userId"`

	// Version is the monotonically increasing snapshot number, starting at 1.
	Version int64 `json:"version"`

	Kind        SecretKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	IsFavorite  bool       `json:"isFavorite"`

	Envelope

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the SecretVersion model.
func (v SecretVersion) TableName() string {
	return "secret_versions"
}
