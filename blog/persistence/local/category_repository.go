package local

import (
	"context"
	"database/sql"
	"slices"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/dfryer1193/vlog/shared/db"
)

// CategoryRepository keeps the ordered category names in the CategoriesKey entry.
// An entry that was never written reads as the default category set.
type CategoryRepository struct {
	db *sql.DB
	kv *KVStore
}

func NewCategoryRepository(conn *sql.DB) *CategoryRepository {
	return &CategoryRepository{
		db: conn,
		kv: NewKVStore(conn),
	}
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]string, error) {
	var names []string
	found, err := r.kv.Get(ctx, CategoriesKey, &names)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.DefaultCategoryList(), nil
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// AddCategory appends name unless an identical name already exists.
func (r *CategoryRepository) AddCategory(ctx context.Context, name string) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		names, err := r.ListCategories(txCtx)
		if err != nil {
			return err
		}
		if slices.Contains(names, name) {
			return nil
		}
		return r.kv.Put(txCtx, CategoriesKey, append(names, name))
	})
}

// DeleteCategory removes name if present. Posts keep their category label.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, name string) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		names, err := r.ListCategories(txCtx)
		if err != nil {
			return err
		}
		idx := slices.Index(names, name)
		if idx == -1 {
			return nil
		}
		return r.kv.Put(txCtx, CategoriesKey, slices.Delete(names, idx, idx+1))
	})
}

// SeedCategories writes names only when the entry has never been written.
func (r *CategoryRepository) SeedCategories(ctx context.Context, names []string) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		var existing []string
		found, err := r.kv.Get(txCtx, CategoriesKey, &existing)
		if err != nil || found {
			return err
		}
		return r.kv.Put(txCtx, CategoriesKey, names)
	})
}
