package models

import "time"

// BackupFormatVersion identifies the cryptographic scheme and JSON layout of
// a backup artifact. Format "1.0" is PBKDF2-SHA256 + AES-256-CBC; the field
// gates any future scheme upgrade without breaking stored artifacts.
const BackupFormatVersion = "1.0"

// Backup is the decrypted content of a backup artifact: a user summary, the
// active secret envelopes split by kind (still individually encrypted with
// their own per-record keys), every version snapshot, and counters.
type Backup struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	User User `json:"user"`

	// Credentials holds the active login-credential records, envelopes verbatim.
	Credentials []SecretRecord `json:"credentials"`

	// Versions holds every version snapshot of the user's secrets.
	Versions []SecretVersion `json:"versions"`

	// Notes holds the active secure-note records, envelopes verbatim.
	Notes []SecretRecord `json:"notes"`

	Metadata BackupMetadata `json:"metadata"`
}

// BackupMetadata carries counters describing the backup content.
type BackupMetadata struct {
	TotalCredentials int `json:"totalCredentials"`
	TotalVersions    int `json:"totalVersions"`
	TotalNotes       int `json:"totalNotes"`

	// BackupSize is the byte length of the serialized JSON document before
	// encryption.
	BackupSize int `json:"backupSize"`
}

// RestoreResult summarizes what a backup restore inserted.
type RestoreResult struct {
	SecretsRestored  int
	VersionsRestored int

	// VersionsDropped counts version rows whose original record id had no
	// corresponding restored secret; they are dropped, not restored as orphans.
	VersionsDropped int
}
