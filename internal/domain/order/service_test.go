package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	lastPlaced *Order
	placeErr   error

	statusRef  string
	statusSet  Status
	statusErr  error
	listOrders []Order
	byRef      map[string]*Order
}

func (m *mockOrderRepo) Place(_ context.Context, o *Order) error {
	if m.placeErr != nil {
		return m.placeErr
	}
	m.lastPlaced = o
	return nil
}

func (m *mockOrderRepo) GetByReference(_ context.Context, ref string) (*Order, error) {
	o, ok := m.byRef[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]Order, error) {
	return m.listOrders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, ref string, st Status) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statusRef = ref
	m.statusSet = st
	return nil
}

// --- Tests ---

func TestPlace_EmptyItems(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	_, err := svc.Place(context.Background(), PlaceRequest{})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestPlace_InvalidQuantity(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	for _, qty := range []int{0, -3} {
		_, err := svc.Place(context.Background(), PlaceRequest{
			Items: []ItemRequest{{TextbookID: "t1", Quantity: qty}},
		})

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, err, &iqErr)
		assert.Equal(t, "t1", iqErr.TextbookID)
	}
}

func TestPlace_DuplicateItemsCoalesced(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	price := decimal.RequireFromString("12.50")
	_, err := svc.Place(context.Background(), PlaceRequest{
		Items: []ItemRequest{
			{TextbookID: "t1", Quantity: 2, Price: &price},
			{TextbookID: "t2", Quantity: 1},
			{TextbookID: "t1", Quantity: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.lastPlaced.Items, 2)
	assert.Equal(t, "t1", repo.lastPlaced.Items[0].TextbookID)
	assert.Equal(t, 5, repo.lastPlaced.Items[0].Quantity, "duplicate ids sum into one stock check")
	assert.True(t, price.Equal(repo.lastPlaced.Items[0].Price))
	assert.Equal(t, "t2", repo.lastPlaced.Items[1].TextbookID)
	assert.Equal(t, 1, repo.lastPlaced.Items[1].Quantity)
}

func TestPlace_GeneratesReferenceAndPendingStatus(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	o, err := svc.Place(context.Background(), PlaceRequest{
		Student: Student{Name: "Ada Lovelace", Email: "ada@example.edu"},
		Items:   []ItemRequest{{TextbookID: "t1", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.NotEmpty(t, o.ID)
	assert.Contains(t, o.Reference, "EDU-")
	assert.Equal(t, "Ada Lovelace", o.Student.Name)
}

func TestPlace_KeepsCallerReference(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	o, err := svc.Place(context.Background(), PlaceRequest{
		Reference: "REF-2024-001",
		Items:     []ItemRequest{{TextbookID: "t1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "REF-2024-001", o.Reference)
}

func TestPlace_InsufficientStockPassesThrough(t *testing.T) {
	repo := &mockOrderRepo{
		placeErr: &InsufficientStockError{
			TextbookID: "t1",
			Title:      "Intro to Circuits",
			Available:  2,
			Requested:  5,
		},
	}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), PlaceRequest{
		Items: []ItemRequest{{TextbookID: "t1", Quantity: 5}},
	})

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 2, isErr.Available)
	assert.Equal(t, "Insufficient stock for Intro to Circuits. Only 2 available.", isErr.Error())
}

func TestPlace_TextbookNotFoundPassesThrough(t *testing.T) {
	repo := &mockOrderRepo{placeErr: &TextbookNotFoundError{TextbookID: "missing"}}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), PlaceRequest{
		Items: []ItemRequest{{TextbookID: "missing", Quantity: 1}},
	})

	var nfErr *TextbookNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.TextbookID)
}

func TestPlace_StoreErrorWrapped(t *testing.T) {
	repo := &mockOrderRepo{placeErr: errors.New("db down")}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), PlaceRequest{
		Items: []ItemRequest{{TextbookID: "t1", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "place order")
}

func TestUpdateStatus(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	err := svc.UpdateStatus(context.Background(), "ref1", StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "ref1", repo.statusRef)
	assert.Equal(t, StatusCompleted, repo.statusSet)
}

func TestUpdateStatus_Invalid(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	for _, st := range []Status{StatusPending, Status("shipped"), Status("")} {
		err := svc.UpdateStatus(context.Background(), "ref1", st)
		var trErr *InvalidTransitionError
		require.ErrorAs(t, err, &trErr, "status %q", st)
	}
}
