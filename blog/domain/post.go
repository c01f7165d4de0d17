package domain

import (
	"context"
	"slices"
	"time"
)

// Post represents a blog entry.
// Every backend normalizes its own storage shape into this struct.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	CoverImage string    `json:"coverImage"`
	Images     []string  `json:"images"`
	VideoURL   string    `json:"videoUrl"`
	Featured   bool      `json:"featured"`
	Date       time.Time `json:"date"`
	Views      int64     `json:"views"`
}

// Clone returns a deep copy so callers can never alias a backend's slices.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.Images = slices.Clone(p.Images)
	return &c
}

// PostDraft carries the fields of a post that is about to be created.
// Zero values are filled in by ResolveDraft.
type PostDraft struct {
	ID         string    `json:"id,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	CoverImage string    `json:"coverImage"`
	Images     []string  `json:"images"`
	VideoURL   string    `json:"videoUrl"`
	Featured   bool      `json:"featured"`
	Date       time.Time `json:"date,omitempty"`
}

// PostPatch is a partial update. Nil fields are left untouched.
// ID, Date and Views cannot be patched.
type PostPatch struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	Category   *string   `json:"category,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	CoverImage *string   `json:"coverImage,omitempty"`
	Images     *[]string `json:"images,omitempty"`
	VideoURL   *string   `json:"videoUrl,omitempty"`
	Featured   *bool     `json:"featured,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (pp PostPatch) IsEmpty() bool {
	return pp.Title == nil && pp.Content == nil && pp.Excerpt == nil &&
		pp.Category == nil && pp.Tags == nil && pp.CoverImage == nil &&
		pp.Images == nil && pp.VideoURL == nil && pp.Featured == nil
}

// Apply merges the present fields of the patch into a copy of p.
func (pp PostPatch) Apply(p *Post) *Post {
	out := p.Clone()
	if pp.Title != nil {
		out.Title = *pp.Title
	}
	if pp.Content != nil {
		out.Content = *pp.Content
	}
	if pp.Excerpt != nil {
		out.Excerpt = *pp.Excerpt
	}
	if pp.Category != nil {
		out.Category = *pp.Category
	}
	if pp.Tags != nil {
		out.Tags = nonNil(slices.Clone(*pp.Tags))
	}
	if pp.CoverImage != nil {
		out.CoverImage = *pp.CoverImage
	}
	if pp.Images != nil {
		out.Images = nonNil(slices.Clone(*pp.Images))
	}
	if pp.VideoURL != nil {
		out.VideoURL = *pp.VideoURL
	}
	if pp.Featured != nil {
		out.Featured = *pp.Featured
	}
	return out
}

// SortByDateDesc orders posts newest first. Ties keep their existing order.
func SortByDateDesc(posts []*Post) {
	slices.SortStableFunc(posts, func(a, b *Post) int {
		return b.Date.Compare(a.Date)
	})
}

// ContentBackend is the storage contract shared by the local and remote stores.
// Implementations return ErrNotFound for absent posts and raw errors otherwise.
type ContentBackend interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error

	// ListPosts returns every post ordered by date, newest first.
	ListPosts(ctx context.Context) ([]*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	// CreatePost stores a fully resolved post. The backend assigns the ID when empty.
	CreatePost(ctx context.Context, p *Post) (*Post, error)
	UpdatePost(ctx context.Context, id string, patch PostPatch) (*Post, error)
	DeletePost(ctx context.Context, id string) error
	// IncrementViews adds exactly one view in a single atomic step.
	IncrementViews(ctx context.Context, id string) error
	SearchPosts(ctx context.Context, filter SearchFilter) ([]*Post, error)

	UploadImage(ctx context.Context, img *Image) (string, error)

	// Seed inserts posts only when the store holds none, and categories only
	// when none have been stored yet.
	Seed(ctx context.Context, posts []*Post, categories []string) error
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
