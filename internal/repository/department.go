package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edutext/edutext-api/internal/domain/department"
)

const (
	listDepartmentsSQL  = `SELECT id, name, code FROM departments ORDER BY name`
	createDepartmentSQL = `INSERT INTO departments (id, name, code) VALUES ($1, $2, $3)`
	updateDepartmentSQL = `UPDATE departments SET name = $2, code = $3 WHERE id = $1`
	deleteDepartmentSQL = `DELETE FROM departments WHERE id = $1`
)

var _ department.Repository = (*DepartmentRepository)(nil)

// DepartmentRepository implements department.Repository backed by PostgreSQL.
type DepartmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository returns a DepartmentRepository that uses the given pool.
func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// List returns all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]department.Department, error) {
	rows, err := r.pool.Query(ctx, listDepartmentsSQL)
	if err != nil {
		return nil, classify(err, "listing departments")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (department.Department, error) {
		var d department.Department
		err := row.Scan(&d.ID, &d.Name, &d.Code)
		return d, err
	})
}

// Create inserts a new department.
func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	if _, err := r.pool.Exec(ctx, createDepartmentSQL, d.ID, d.Name, d.Code); err != nil {
		return classify(err, "creating department "+d.ID)
	}
	return nil
}

// Update replaces a department's name and code.
func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) error {
	tag, err := r.pool.Exec(ctx, updateDepartmentSQL, d.ID, d.Name, d.Code)
	if err != nil {
		return classify(err, "updating department "+d.ID)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrNotFound
	}
	return nil
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteDepartmentSQL, id)
	if err != nil {
		return classify(err, "deleting department "+id)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrNotFound
	}
	return nil
}
