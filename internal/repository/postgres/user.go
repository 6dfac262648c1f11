package postgres

import (
	"context"
	"database/sql"
	"errors"

	"file-drive/internal/domain/user"
	apperrors "file-drive/pkg/errors"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create relies on the users_username_key constraint, so two concurrent
// sign-ups for one name cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at
	`

	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, input.Username, input.PasswordHash).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.DuplicateUsername(msgUsernameTaken)
		}
		return nil, errFailedCreateUser(err)
	}

	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	return r.findOne(ctx, query, username)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	return r.findOne(ctx, query, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}
