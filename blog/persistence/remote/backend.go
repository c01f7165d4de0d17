// Package remote implements the content backend on PostgreSQL tables plus an
// S3-compatible bucket for uploaded images.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/jackc/pgx/v5"
)

var _ domain.ContentBackend = (*Backend)(nil)

// DB is a DBTX that can also open transactions, such as *pgxpool.Pool.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Backend is the remote content backend.
type Backend struct {
	db     DB
	bucket ImageBucket
	now    func() time.Time

	*PostRepository
	*CategoryRepository
}

func NewBackend(db DB, bucket ImageBucket) *Backend {
	return &Backend{
		db:                 db,
		bucket:             bucket,
		now:                time.Now,
		PostRepository:     NewPostRepository(db),
		CategoryRepository: NewCategoryRepository(db),
	}
}

// UploadImage stores img under a timestamped unique key in the bucket.
func (b *Backend) UploadImage(ctx context.Context, img *domain.Image) (string, error) {
	if b.bucket == nil {
		return "", fmt.Errorf("no image bucket configured")
	}
	if img.Name == "" {
		img.Name = domain.NewImageName(img.Filename, img.ContentType, b.now())
	}
	return b.bucket.PutImage(ctx, img.Name, img.ContentType, img.Content)
}

// Seed inserts the default categories when the table is empty and the demo
// posts when no post exists, in one transaction.
func (b *Backend) Seed(ctx context.Context, posts []*domain.Post, categories []string) error {
	return pgx.BeginFunc(ctx, b.db, func(tx pgx.Tx) error {
		postRepo := NewPostRepository(tx)
		categoryRepo := NewCategoryRepository(tx)

		catCount, err := categoryRepo.CountCategories(ctx)
		if err != nil {
			return err
		}
		if catCount == 0 {
			for _, name := range categories {
				if err := categoryRepo.AddCategory(ctx, name); err != nil {
					return err
				}
			}
		}

		postCount, err := postRepo.CountPosts(ctx)
		if err != nil {
			return err
		}
		if postCount > 0 {
			return nil
		}

		// Insert oldest first so ids ascend with dates.
		for i := len(posts) - 1; i >= 0; i-- {
			if _, err := postRepo.CreatePost(ctx, posts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
