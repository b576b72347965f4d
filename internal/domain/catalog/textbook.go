package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested textbook does not exist.
var ErrNotFound = errors.New("textbook not found")

// ErrInUse is returned when a textbook cannot be deleted because order line
// items still reference it.
var ErrInUse = errors.New("textbook is referenced by existing orders")

// Textbook represents a catalog entry available for ordering.
type Textbook struct {
	ID          string
	Title       string
	CourseCode  string
	Department  string
	Level       string
	Price       decimal.Decimal
	Description string
	Stock       int
	ImageURL    string
	IsPopular   bool
	IsNew       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows a catalog listing. Zero values mean no restriction.
// Department and Level hold machine values after normalization.
type Filter struct {
	Department string
	Level      string
	Search     string
}

// Normalized translates human-readable labels into machine values and drops
// dimensions that cannot be resolved. An unrecognized department or level
// label disables that filter entirely rather than matching nothing; the
// original system behaved this way and clients depend on it.
func (f Filter) Normalized() Filter {
	return Filter{
		Department: NormalizeDepartment(f.Department),
		Level:      NormalizeLevel(f.Level),
		Search:     f.Search,
	}
}

// Repository defines persistence operations for the textbook catalog.
// Stock is mutated here only by restocking updates; order placement
// decrements it inside its own transaction.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Textbook, error)
	GetByID(ctx context.Context, id string) (*Textbook, error)
	Create(ctx context.Context, t *Textbook) error
	Update(ctx context.Context, t *Textbook) error
	Delete(ctx context.Context, id string) error
}
