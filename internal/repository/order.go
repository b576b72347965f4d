package repository

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edutext/edutext-api/internal/domain/order"
)

const (
	lockTextbookSQL = `SELECT title, course_code, price, stock FROM textbooks WHERE id = $1 FOR UPDATE`

	insertOrderSQL = `INSERT INTO orders
		(id, reference, status, total_amount, student_name, student_email, matric_number, department, level, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	insertOrderItemSQL = `INSERT INTO order_items
		(id, order_id, textbook_id, quantity, price, book_title, course_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	decrementStockSQL = `UPDATE textbooks SET stock = stock - $2, updated_at = now() WHERE id = $1`

	getOrderSQL = `SELECT id, reference, status, total_amount, student_name, student_email,
		matric_number, department, level, phone_number, created_at
		FROM orders WHERE reference = $1`

	listOrdersSQL = `SELECT id, reference, status, total_amount, student_name, student_email,
		matric_number, department, level, phone_number, created_at
		FROM orders ORDER BY created_at DESC`

	getOrderItemsSQL = `SELECT id, order_id, textbook_id, quantity, price, book_title, course_code
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE reference = $1 AND status = 'pending'`

	getOrderStatusSQL = `SELECT status FROM orders WHERE reference = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// lockedBook is a textbook row read under FOR UPDATE.
type lockedBook struct {
	title      string
	courseCode string
	price      decimal.Decimal
	stock      int
}

// Place persists the order atomically. Every referenced textbook row is
// locked FOR UPDATE in ascending id order so concurrent placements touching
// the same books cannot deadlock each other; stock checks then run in the
// order's item order, failing on the first shortage. Header and line items
// are inserted and stock decremented only when every check passes, all
// within one transaction.
func (r *OrderRepository) Place(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify(err, "begin placement")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	ids := make([]string, len(o.Items))
	for i, it := range o.Items {
		ids[i] = it.TextbookID
	}
	sort.Strings(ids)

	books := make(map[string]lockedBook, len(ids))
	for _, id := range ids {
		var b lockedBook
		err := tx.QueryRow(ctx, lockTextbookSQL, id).Scan(&b.title, &b.courseCode, &b.price, &b.stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &order.TextbookNotFoundError{TextbookID: id}
			}
			return classify(err, "lock textbook "+id)
		}
		books[id] = b
	}

	total, err := fillSnapshots(o.Items, books)
	if err != nil {
		return err
	}
	o.Total = total

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.ID, o.Reference, o.Status, o.Total,
		o.Student.Name, o.Student.Email, o.Student.MatricNumber,
		o.Student.Department, o.Student.Level, o.Student.PhoneNumber,
	).Scan(&o.CreatedAt)
	if err != nil {
		return classify(err, "insert order "+o.Reference)
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, insertOrderItemSQL,
			it.ID, o.ID, it.TextbookID, it.Quantity, it.Price, it.BookTitle, it.CourseCode,
		); err != nil {
			return classify(err, "insert order item "+it.ID)
		}
		if _, err := tx.Exec(ctx, decrementStockSQL, it.TextbookID, it.Quantity); err != nil {
			return classify(err, "decrement stock for "+it.TextbookID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(err, "commit placement")
	}
	return nil
}

// fillSnapshots verifies stock for every line item against the locked rows
// and captures price/title/course-code snapshots where the caller did not
// supply them. It returns the order total rounded to 2 decimal places.
func fillSnapshots(items []order.LineItem, books map[string]lockedBook) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range items {
		it := &items[i]
		b, ok := books[it.TextbookID]
		if !ok {
			return decimal.Zero, &order.TextbookNotFoundError{TextbookID: it.TextbookID}
		}
		if b.stock < it.Quantity {
			return decimal.Zero, &order.InsufficientStockError{
				TextbookID: it.TextbookID,
				Title:      b.title,
				Available:  b.stock,
				Requested:  it.Quantity,
			}
		}
		if it.Price.IsZero() {
			it.Price = b.price
		}
		if it.BookTitle == "" {
			it.BookTitle = b.title
		}
		if it.CourseCode == "" {
			it.CourseCode = b.courseCode
		}
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2), nil
}

// GetByReference returns an order with its line items.
func (r *OrderRepository) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, reference)
	if err != nil {
		return nil, classify(err, "getting order "+reference)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, classify(err, "getting order "+reference)
	}

	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

// List returns all orders, newest first, each with its line items.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, classify(err, "listing orders")
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, classify(err, "listing orders")
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// UpdateStatus transitions a pending order. Non-pending orders yield an
// InvalidTransitionError carrying the current status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, reference string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, reference, status)
	if err != nil {
		return classify(err, "updating order "+reference)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current order.Status
	err = r.pool.QueryRow(ctx, getOrderStatusSQL, reference).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ErrNotFound
		}
		return classify(err, "updating order "+reference)
	}
	return &order.InvalidTransitionError{From: current, To: status}
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []string) (map[string][]order.LineItem, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderIDs)
	if err != nil {
		return nil, classify(err, "loading order items")
	}

	defer rows.Close()

	grouped := make(map[string][]order.LineItem, len(orderIDs))
	for rows.Next() {
		var (
			it      order.LineItem
			orderID string
		)
		if err := rows.Scan(&it.ID, &orderID, &it.TextbookID, &it.Quantity, &it.Price, &it.BookTitle, &it.CourseCode); err != nil {
			return nil, classify(err, "scanning order item")
		}
		grouped[orderID] = append(grouped[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "loading order items")
	}
	return grouped, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.Reference, &o.Status, &o.Total,
		&o.Student.Name, &o.Student.Email, &o.Student.MatricNumber,
		&o.Student.Department, &o.Student.Level, &o.Student.PhoneNumber,
		&o.CreatedAt,
	)
	return o, err
}
