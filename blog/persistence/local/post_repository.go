package local

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/dfryer1193/vlog/shared/db"
)

// PostRepository keeps every post in the single PostsKey entry.
type PostRepository struct {
	db  *sql.DB
	kv  *KVStore
	now func() time.Time
}

func NewPostRepository(conn *sql.DB) *PostRepository {
	return &PostRepository{
		db:  conn,
		kv:  NewKVStore(conn),
		now: time.Now,
	}
}

func (r *PostRepository) load(ctx context.Context) ([]*domain.Post, error) {
	var posts []*domain.Post
	if _, err := r.kv.Get(ctx, PostsKey, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) save(ctx context.Context, posts []*domain.Post) error {
	if posts == nil {
		posts = []*domain.Post{}
	}
	return r.kv.Put(ctx, PostsKey, posts)
}

// modify runs a read-modify-write of the posts entry in one transaction.
// fn reports whether the entry changed and must be written back.
func (r *PostRepository) modify(ctx context.Context, fn func(posts []*domain.Post) ([]*domain.Post, bool, error)) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		posts, err := r.load(txCtx)
		if err != nil {
			return err
		}

		updated, changed, err := fn(posts)
		if err != nil || !changed {
			return err
		}

		return r.save(txCtx, updated)
	})
}

// ListPosts returns all posts, newest first.
func (r *PostRepository) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	domain.SortByDateDesc(posts)
	return posts, nil
}

// GetPost retrieves a single post by ID
func (r *PostRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	posts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(posts, id)
	if idx == -1 {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return posts[idx], nil
}

// CreatePost inserts p at the head of the list, assigning a timestamp ID when p has none.
func (r *PostRepository) CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if p == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	created := p.Clone()
	err := r.modify(ctx, func(posts []*domain.Post) ([]*domain.Post, bool, error) {
		if created.ID == "" {
			created.ID = nextID(posts, r.now())
		} else if indexOf(posts, created.ID) != -1 {
			return nil, false, fmt.Errorf("post %s already exists: %w", created.ID, domain.ErrInvalidInput)
		}

		return slices.Insert(posts, 0, created), true, nil
	})
	if err != nil {
		return nil, err
	}

	return created.Clone(), nil
}

// UpdatePost merges patch into the stored post.
func (r *PostRepository) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	var updated *domain.Post
	err := r.modify(ctx, func(posts []*domain.Post) ([]*domain.Post, bool, error) {
		idx := indexOf(posts, id)
		if idx == -1 {
			return nil, false, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}

		updated = patch.Apply(posts[idx])
		posts[idx] = updated
		return posts, !patch.IsEmpty(), nil
	})
	if err != nil {
		return nil, err
	}

	return updated.Clone(), nil
}

// DeletePost removes the post; deleting an absent post is a no-op.
func (r *PostRepository) DeletePost(ctx context.Context, id string) error {
	return r.modify(ctx, func(posts []*domain.Post) ([]*domain.Post, bool, error) {
		idx := indexOf(posts, id)
		if idx == -1 {
			return posts, false, nil
		}
		return slices.Delete(posts, idx, idx+1), true, nil
	})
}

// IncrementViews adds one view inside the write transaction.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	return r.modify(ctx, func(posts []*domain.Post) ([]*domain.Post, bool, error) {
		idx := indexOf(posts, id)
		if idx == -1 {
			return posts, false, nil
		}
		posts[idx].Views++
		return posts, true, nil
	})
}

// SearchPosts filters the date-ordered listing.
func (r *PostRepository) SearchPosts(ctx context.Context, filter domain.SearchFilter) ([]*domain.Post, error) {
	posts, err := r.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Filter(posts), nil
}

// SeedPosts stores posts only when the entry holds none. It reports whether it wrote.
func (r *PostRepository) SeedPosts(ctx context.Context, seed []*domain.Post) (bool, error) {
	seeded := false
	err := r.modify(ctx, func(posts []*domain.Post) ([]*domain.Post, bool, error) {
		if len(posts) > 0 {
			return posts, false, nil
		}

		out := make([]*domain.Post, 0, len(seed))
		for _, p := range seed {
			c := p.Clone()
			if c.ID == "" {
				c.ID = nextID(out, r.now())
			}
			out = append(out, c)
		}

		seeded = true
		return out, true, nil
	})

	return seeded, err
}

func indexOf(posts []*domain.Post, id string) int {
	return slices.IndexFunc(posts, func(p *domain.Post) bool {
		return p.ID == id
	})
}

// nextID returns the current Unix millisecond timestamp as an ID, bumped
// forward until it does not collide with an existing post.
func nextID(posts []*domain.Post, now time.Time) string {
	candidate := now.UnixMilli()
	for {
		id := strconv.FormatInt(candidate, 10)
		if indexOf(posts, id) == -1 {
			return id
		}
		candidate++
	}
}
