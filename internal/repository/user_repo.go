package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"transitboard/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles reads and writes against the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)
	const query = `
		INSERT INTO users (username, role, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, user.Username, string(user.Role), user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `
		SELECT id, username, role, password_hash, created_at
		FROM users
		WHERE username = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(username))
	return scanUser(row)
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, username, role, password_hash, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user    models.User
		roleRaw string
	)
	if err := row.Scan(&user.ID, &user.Username, &roleRaw, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	role, err := models.ParseRole(roleRaw)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}
