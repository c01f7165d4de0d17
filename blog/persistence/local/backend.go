// Package local implements the content backend on an embedded SQLite file used
// as a key-value store: one entry for the category list, one for the post list.
package local

import (
	"context"
	"database/sql"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/dfryer1193/vlog/shared/db"
)

var _ domain.ContentBackend = (*Backend)(nil)

type Config struct {
	// ImageDir is where uploaded images are written.
	ImageDir string
	// PublicURL prefixes image URLs, e.g. "http://localhost:8080".
	PublicURL string
}

// Backend is the local content backend.
type Backend struct {
	db *sql.DB

	*PostRepository
	*CategoryRepository
	images *ImageRepository
}

func NewBackend(conn *sql.DB, cfg Config) *Backend {
	return &Backend{
		db:                 conn,
		PostRepository:     NewPostRepository(conn),
		CategoryRepository: NewCategoryRepository(conn),
		images:             NewImageRepository(conn, cfg.ImageDir, cfg.PublicURL),
	}
}

// ImageDir returns the directory served under /images.
func (b *Backend) ImageDir() string {
	return b.images.Dir()
}

func (b *Backend) UploadImage(ctx context.Context, img *domain.Image) (string, error) {
	return b.images.SaveImage(ctx, img)
}

// Seed writes the demo posts and default categories in one transaction,
// leaving each entry alone when it already holds data.
func (b *Backend) Seed(ctx context.Context, posts []*domain.Post, categories []string) error {
	return db.RunInTransaction(ctx, b.db, func(txCtx context.Context) error {
		if err := b.SeedCategories(txCtx, categories); err != nil {
			return err
		}
		_, err := b.SeedPosts(txCtx, posts)
		return err
	})
}
