// Package department holds the managed department lookup table. This is
// distinct from the static department enumeration used by textbook filters.
package department

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested department does not exist.
var ErrNotFound = errors.New("department not found")

// Department is an academic department record.
type Department struct {
	ID   string
	Name string
	Code string
}

// Repository defines persistence operations for departments.
type Repository interface {
	List(ctx context.Context) ([]Department, error)
	Create(ctx context.Context, d *Department) error
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id string) error
}
