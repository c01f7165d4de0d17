package remote

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CategoryRepository reads and writes the categories table.
type CategoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const listCategoriesQuery = `SELECT name FROM categories ORDER BY id`

// ListCategories returns names in creation order.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, listCategoriesQuery)
	if err != nil {
		return nil, handlePostgresError("list categories", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan category rows: %w", err)
	}
	return names, nil
}

const addCategoryQuery = `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

// AddCategory inserts name; an existing identical name is left as is.
func (r *CategoryRepository) AddCategory(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, addCategoryQuery, name); err != nil {
		return handlePostgresError("add category", err)
	}
	return nil
}

const deleteCategoryQuery = `DELETE FROM categories WHERE name = $1`

// DeleteCategory removes name if present. Posts keep their category label.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, deleteCategoryQuery, name); err != nil {
		return handlePostgresError("delete category", err)
	}
	return nil
}

const countCategoriesQuery = `SELECT COUNT(*) FROM categories`

// CountCategories returns the number of stored categories.
func (r *CategoryRepository) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, countCategoriesQuery).Scan(&n); err != nil {
		return 0, handlePostgresError("count categories", err)
	}
	return n, nil
}
