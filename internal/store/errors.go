package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("user was not found")

	// ErrMasterKeyNotFound is returned when a user has no master key record
	// yet, i.e. the master password was never set.
	ErrMasterKeyNotFound = errors.New("master key record was not found")

	// ErrSecretNotFound is returned when a query or update targets a secret
	// record (identified by id and user_id) that does not exist.
	ErrSecretNotFound = errors.New("secret was not found")

	// ErrVersionNotFound is returned when a query targets a version snapshot
	// that does not exist for the given secret.
	ErrVersionNotFound = errors.New("secret version was not found")

	// ErrSecretNotSaved is returned when an INSERT completes without error
	// but the number of affected rows is zero, indicating that nothing was
	// actually persisted.
	ErrSecretNotSaved = errors.New("secret was not saved")

	// ErrVersionConflict is returned when appending a version snapshot keeps
	// colliding on the (secret_id, version) unique constraint after the
	// retry budget is exhausted.
	ErrVersionConflict = errors.New("secret version conflict occurred")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
