package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

// GetUser retrieves the user profile by id, or [ErrUserNotFound].
func (r *userRepository) GetUser(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(getUserByID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	scanErr := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "userRepository.GetUser").
			Int64("user_id", userID).
			Msg("failed to scan user row")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return user, nil
}

// EnsureUser inserts the profile unless a row with its id already exists.
func (r *userRepository) EnsureUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, err := r.db.rebind(ensureUser)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	_, execErr := r.db.ExecContext(ctx, query,
		user.UserID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "userRepository.EnsureUser").
			Int64("user_id", user.UserID).
			Msg("failed to insert user profile")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}
