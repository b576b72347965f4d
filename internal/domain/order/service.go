package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems = fmt.Errorf("items required")
)

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	TextbookID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for textbook %s", e.TextbookID)
}

// TextbookNotFoundError indicates a requested textbook does not exist.
type TextbookNotFoundError struct {
	TextbookID string
}

func (e *TextbookNotFoundError) Error() string {
	return fmt.Sprintf("textbook %s not found", e.TextbookID)
}

// InsufficientStockError indicates a requested quantity exceeds the stock
// available for a textbook. The whole placement is rolled back.
type InsufficientStockError struct {
	TextbookID string
	Title      string
	Available  int
	Requested  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Only %d available.", e.Title, e.Available)
}

// InvalidTransitionError indicates a status change that is not allowed;
// only pending orders may move to completed or failed.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// ItemRequest is one requested (textbook, quantity) pair. Price optionally
// overrides the unit price snapshot; when nil the textbook's current price
// is captured.
type ItemRequest struct {
	TextbookID string
	Quantity   int
	Price      *decimal.Decimal
}

// PlaceRequest holds the input for placing an order.
type PlaceRequest struct {
	Reference string
	Student   Student
	Items     []ItemRequest
}

// Service encapsulates order placement and fulfillment business logic.
type Service struct {
	orders Repository
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// Place validates the request, coalesces duplicate textbook ids, and hands a
// pending order to the repository for atomic persistence. On success the
// returned order carries assigned snapshots, the computed total, and the
// creation timestamp.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate quantities before touching the store, and sum duplicates so a
	// textbook requested twice faces a single stock check.
	merged := make([]LineItem, 0, len(req.Items))
	index := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{TextbookID: item.TextbookID}
		}
		if i, ok := index[item.TextbookID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		line := LineItem{
			ID:         uuid.New().String(),
			TextbookID: item.TextbookID,
			Quantity:   item.Quantity,
		}
		if item.Price != nil {
			line.Price = *item.Price
		}
		index[item.TextbookID] = len(merged)
		merged = append(merged, line)
	}

	reference := req.Reference
	if reference == "" {
		reference = "EDU-" + uuid.New().String()
	}

	o := &Order{
		ID:        uuid.New().String(),
		Reference: reference,
		Status:    StatusPending,
		Student:   req.Student,
		Items:     merged,
	}
	if err := s.orders.Place(ctx, o); err != nil {
		// Stock and lookup failures pass through untouched so callers can
		// match on the typed errors.
		var insufficient *InsufficientStockError
		var notFound *TextbookNotFoundError
		if errors.As(err, &insufficient) || errors.As(err, &notFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "place order")
	}

	return o, nil
}

// Get returns a single order by its exact reference.
func (s *Service) Get(ctx context.Context, reference string) (*Order, error) {
	return s.orders.GetByReference(ctx, reference)
}

// List returns all orders. Callers are responsible for restricting this to
// staff identities.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus transitions a pending order to completed or failed.
func (s *Service) UpdateStatus(ctx context.Context, reference string, status Status) error {
	if status != StatusCompleted && status != StatusFailed {
		return &InvalidTransitionError{From: StatusPending, To: status}
	}
	return s.orders.UpdateStatus(ctx, reference, status)
}
