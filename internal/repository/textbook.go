package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edutext/edutext-api/internal/domain/catalog"
)

const textbookColumns = `id, title, course_code, department, level, price, description,
	stock, image_url, is_popular, is_new, created_at, updated_at`

const (
	getTextbookSQL = `SELECT ` + textbookColumns + ` FROM textbooks WHERE id = $1`

	createTextbookSQL = `INSERT INTO textbooks
		(id, title, course_code, department, level, price, description, stock, image_url, is_popular, is_new)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	updateTextbookSQL = `UPDATE textbooks SET
		title = $2, course_code = $3, department = $4, level = $5, price = $6,
		description = $7, stock = $8, image_url = $9, is_popular = $10, is_new = $11,
		updated_at = now()
		WHERE id = $1`

	deleteTextbookSQL = `DELETE FROM textbooks WHERE id = $1`
)

var _ catalog.Repository = (*TextbookRepository)(nil)

// TextbookRepository implements catalog.Repository backed by PostgreSQL.
type TextbookRepository struct {
	pool *pgxpool.Pool
}

// NewTextbookRepository returns a TextbookRepository that uses the given pool.
func NewTextbookRepository(pool *pgxpool.Pool) *TextbookRepository {
	return &TextbookRepository{pool: pool}
}

// List returns catalog entries matching the filter, ordered by title. The
// search term matches case-insensitively anywhere in the title or course code.
func (r *TextbookRepository) List(ctx context.Context, f catalog.Filter) ([]catalog.Textbook, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + textbookColumns + ` FROM textbooks`)

	var conds []string
	if f.Department != "" {
		args = append(args, f.Department)
		conds = append(conds, "department = $"+strconv.Itoa(len(args)))
	}
	if f.Level != "" {
		args = append(args, f.Level)
		conds = append(conds, "level = $"+strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(title ILIKE $"+n+" OR course_code ILIKE $"+n+")")
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY title")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, classify(err, "listing textbooks")
	}
	return pgx.CollectRows(rows, scanTextbook)
}

// GetByID returns a single textbook by its identifier.
func (r *TextbookRepository) GetByID(ctx context.Context, id string) (*catalog.Textbook, error) {
	rows, err := r.pool.Query(ctx, getTextbookSQL, id)
	if err != nil {
		return nil, classify(err, "getting textbook "+id)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTextbook)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, classify(err, "getting textbook "+id)
	}
	return &t, nil
}

// Create inserts a new textbook and fills its timestamps.
func (r *TextbookRepository) Create(ctx context.Context, t *catalog.Textbook) error {
	err := r.pool.QueryRow(ctx, createTextbookSQL,
		t.ID, t.Title, t.CourseCode, t.Department, t.Level, t.Price,
		t.Description, t.Stock, t.ImageURL, t.IsPopular, t.IsNew,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return classify(err, "creating textbook "+t.ID)
	}
	return nil
}

// Update replaces all mutable fields of a textbook.
func (r *TextbookRepository) Update(ctx context.Context, t *catalog.Textbook) error {
	tag, err := r.pool.Exec(ctx, updateTextbookSQL,
		t.ID, t.Title, t.CourseCode, t.Department, t.Level, t.Price,
		t.Description, t.Stock, t.ImageURL, t.IsPopular, t.IsNew,
	)
	if err != nil {
		return classify(err, "updating textbook "+t.ID)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes a textbook. The foreign key from order_items is RESTRICT,
// so deletion is refused with catalog.ErrInUse while order history still
// references the book.
func (r *TextbookRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteTextbookSQL, id)
	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return catalog.ErrInUse
		}
		return classify(err, "deleting textbook "+id)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func scanTextbook(row pgx.CollectableRow) (catalog.Textbook, error) {
	var t catalog.Textbook
	err := row.Scan(
		&t.ID, &t.Title, &t.CourseCode, &t.Department, &t.Level, &t.Price,
		&t.Description, &t.Stock, &t.ImageURL, &t.IsPopular, &t.IsNew,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
