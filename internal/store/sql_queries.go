package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/gui-benedito/go-secret-vault/models"
)

// Fixed queries are written with ? placeholders and rebound to the dialect's
// placeholder format via [DB.rebind] before execution.
const (
	getUserByID = `SELECT user_id, email, first_name, last_name, created_at
		FROM users
		WHERE user_id = ?;`

	ensureUser = `INSERT INTO users (user_id, email, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING;`

	getMasterKey = `SELECT user_id, key_fingerprint, salt, created_at, updated_at
		FROM master_keys
		WHERE user_id = ?;`

	upsertMasterKey = `INSERT INTO master_keys (user_id, key_fingerprint, salt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET key_fingerprint = excluded.key_fingerprint,
			salt = excluded.salt,
			updated_at = excluded.updated_at;`

	secretColumns = `id, user_id, kind, title, description, category, is_favorite,
		encrypted_identifier, encrypted_secret_value, encrypted_notes,
		key_fingerprint, iv, salt, is_active, created_at, updated_at`

	createSecret = `INSERT INTO secrets (
			id, user_id, kind, title, description, category, is_favorite,
			encrypted_identifier, encrypted_secret_value, encrypted_notes,
			key_fingerprint, iv, salt, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getSecretByID = `SELECT ` + secretColumns + `
		FROM secrets
		WHERE id = ? AND user_id = ?;`

	updateSecretEnvelope = `UPDATE secrets
		SET title = ?, description = ?, category = ?, is_favorite = ?,
			encrypted_identifier = ?, encrypted_secret_value = ?, encrypted_notes = ?,
			key_fingerprint = ?, iv = ?, salt = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?;`

	softDeleteSecret = `UPDATE secrets
		SET is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = ?;`

	versionColumns = `id, secret_id, user_id, version, kind, title, description, category,
		is_favorite, encrypted_identifier, encrypted_secret_value, encrypted_notes,
		key_fingerprint, iv, salt, is_active, created_at`

	// The version number is computed inside the INSERT so a plain
	// read-max-then-insert race cannot silently reuse a number; a concurrent
	// writer still hits the (secret_id, version) unique constraint, which
	// the caller retries on.
	appendVersion = `INSERT INTO secret_versions (
			id, secret_id, user_id, version, kind, title, description, category,
			is_favorite, encrypted_identifier, encrypted_secret_value, encrypted_notes,
			key_fingerprint, iv, salt, is_active, created_at
		)
		SELECT ?, ?, ?, COALESCE(MAX(version), 0) + 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM secret_versions
		WHERE secret_id = ?;`

	insertVersion = `INSERT INTO secret_versions (
			id, secret_id, user_id, version, kind, title, description, category,
			is_favorite, encrypted_identifier, encrypted_secret_value, encrypted_notes,
			key_fingerprint, iv, salt, is_active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getVersionNumber = `SELECT version
		FROM secret_versions
		WHERE id = ?;`

	listVersionsBySecret = `SELECT ` + versionColumns + `
		FROM secret_versions
		WHERE secret_id = ?
		ORDER BY version DESC;`

	getVersion = `SELECT ` + versionColumns + `
		FROM secret_versions
		WHERE secret_id = ? AND version = ?;`

	listVersionsByUser = `SELECT ` + versionColumns + `
		FROM secret_versions
		WHERE user_id = ?
		ORDER BY secret_id, version;`
)

// buildListSecretsQuery composes the filtered secret listing dynamically:
// the WHERE clause grows with every filter the caller sets.
func buildListSecretsQuery(db *DB, userID int64, filter models.SecretFilter) (string, []any, error) {
	builder := db.builder().
		Select(
			"id", "user_id", "kind", "title", "description", "category", "is_favorite",
			"encrypted_identifier", "encrypted_secret_value", "encrypted_notes",
			"key_fingerprint", "iv", "salt", "is_active", "created_at", "updated_at",
		).
		From("secrets").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "id")

	if !filter.IncludeInactive {
		builder = builder.Where(sq.Eq{"is_active": true})
	}
	if filter.Kind != "" {
		builder = builder.Where(sq.Eq{"kind": filter.Kind})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.FavoritesOnly {
		builder = builder.Where(sq.Eq{"is_favorite": true})
	}

	return builder.ToSql()
}
