package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edutext/edutext-api/internal/domain/user"
)

const userColumns = `id, username, email, first_name, last_name, role,
	department, level, matric_number, phone_number, password_hash, created_at`

const (
	createUserSQL = `INSERT INTO users
		(id, username, email, first_name, last_name, role, department, level, matric_number, phone_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	getUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. A username collision yields user.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, createUserSQL,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Role,
		u.Department, u.Level, u.MatricNumber, u.PhoneNumber, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isPgCode(err, codeUniqueViolation) {
			return user.ErrUsernameTaken
		}
		return classify(err, "creating user "+u.Username)
	}
	return nil
}

// GetByID returns a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.get(ctx, getUserByIDSQL, id)
}

// GetByUsername returns a user by unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.get(ctx, getUserByUsernameSQL, username)
}

func (r *UserRepository) get(ctx context.Context, sql, arg string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, classify(err, "getting user")
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, classify(err, "getting user")
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.Department, &u.Level, &u.MatricNumber, &u.PhoneNumber, &u.PasswordHash,
		&u.CreatedAt,
	)
	return u, err
}
