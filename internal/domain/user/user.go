package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for user lookup and registration.
var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Role distinguishes ordinary students from staff. Staff may list all orders
// and manage fulfillment.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Valid reports whether r is a defined role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleStaff
}

// User is an authenticated identity.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Department   string
	Level        string
	MatricNumber string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
}

// CheckPassword reports whether the given plaintext password matches the
// stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
