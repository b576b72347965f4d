package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no order matches the given reference.
var ErrNotFound = errors.New("order not found")

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a defined status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Student is the buyer contact snapshot captured at order time. It is
// independent of any live user record.
type Student struct {
	Name         string
	Email        string
	MatricNumber string
	Department   string
	Level        string
	PhoneNumber  string
}

// LineItem is one textbook position within an order. Price, BookTitle and
// CourseCode are snapshots of the referenced textbook at placement time and
// are immutable afterwards. A zero Price means the catalog price read under
// lock is used.
type LineItem struct {
	ID         string
	TextbookID string
	Quantity   int
	Price      decimal.Decimal
	BookTitle  string
	CourseCode string
}

// Order is the aggregate root: a header owning its line items exclusively.
type Order struct {
	ID        string
	Reference string
	Status    Status
	Total     decimal.Decimal
	Student   Student
	Items     []LineItem
	CreatedAt time.Time
}

// Repository defines persistence operations for orders.
//
// Place must be atomic: it locks every referenced textbook row, verifies
// stock, fills price/title/course-code snapshots and the total on o, inserts
// the header with all line items, and decrements stock, all in one
// transaction. On any failure nothing is committed.
type Repository interface {
	Place(ctx context.Context, o *Order) error
	GetByReference(ctx context.Context, reference string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, reference string, status Status) error
}
