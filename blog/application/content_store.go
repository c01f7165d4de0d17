package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// DefaultRelatedLimit is the number of related posts shown under a post.
const DefaultRelatedLimit = 3

// genericContentType carries no type information; such uploads are typed by sniffing.
const genericContentType = "application/octet-stream"

// ContentStore is the single entry point to blog content. Reads degrade to
// safe defaults when the backend fails; writes report the failure.
type ContentStore struct {
	backend  domain.ContentBackend
	markdown MarkdownRenderer
	now      func() time.Time
}

type Option func(*ContentStore)

// WithClock overrides the time source used for defaults and seeding.
func WithClock(now func() time.Time) Option {
	return func(s *ContentStore) {
		s.now = now
	}
}

// WithMarkdownRenderer sets the renderer used by ImportMarkdown.
func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(s *ContentStore) {
		s.markdown = r
	}
}

func NewContentStore(backend domain.ContentBackend, opts ...Option) *ContentStore {
	s := &ContentStore{
		backend:  backend,
		markdown: NewMarkdownRenderer(""),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// writeError wraps a failed backend write. Errors that already carry a
// domain meaning pass through untouched.
func writeError(operation string, err error) error {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrUploadRejected) {
		return err
	}
	return fmt.Errorf("failed to %s: %w: %w", operation, domain.ErrBackendUnavailable, err)
}

// ListCategories returns the category names in backend order, or the
// default set when they cannot be read.
func (s *ContentStore) ListCategories(ctx context.Context) []string {
	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories, serving defaults")
		return domain.DefaultCategoryList()
	}
	return categories
}

func (s *ContentStore) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is empty: %w", domain.ErrInvalidInput)
	}

	if err := s.backend.AddCategory(ctx, name); err != nil {
		return writeError("add category", err)
	}
	return nil
}

// DeleteCategory removes the name from the category list. Posts keep it.
func (s *ContentStore) DeleteCategory(ctx context.Context, name string) error {
	if err := s.backend.DeleteCategory(ctx, name); err != nil {
		return writeError("delete category", err)
	}
	return nil
}

// ListPosts returns every post newest first, or nothing when the backend fails.
func (s *ContentStore) ListPosts(ctx context.Context) []*domain.Post {
	posts, err := s.backend.ListPosts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		return []*domain.Post{}
	}
	domain.SortByDateDesc(posts)
	return posts
}

func (s *ContentStore) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.backend.GetPost(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		log.Error().Err(err).Str("postID", id).Msg("Failed to get post")
		return nil, fmt.Errorf("failed to get post %s: %w: %w", id, domain.ErrBackendUnavailable, err)
	}
	return post, nil
}

// CreatePost resolves the draft's defaults and stores the complete post.
func (s *ContentStore) CreatePost(ctx context.Context, draft domain.PostDraft) (*domain.Post, error) {
	post := domain.ResolveDraft(draft, s.now())

	created, err := s.backend.CreatePost(ctx, post)
	if err != nil {
		return nil, writeError("create post", err)
	}

	log.Info().Str("postID", created.ID).Str("title", created.Title).Msg("Post created")
	return created, nil
}

// UpdatePost merges the fields present in patch into the stored post.
func (s *ContentStore) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	updated, err := s.backend.UpdatePost(ctx, id, domain.ResolvePatch(patch))
	if err != nil {
		return nil, writeError("update post", err)
	}
	return updated, nil
}

// DeletePost removes the post; deleting an absent post succeeds.
func (s *ContentStore) DeletePost(ctx context.Context, id string) error {
	if err := s.backend.DeletePost(ctx, id); err != nil {
		return writeError("delete post", err)
	}
	return nil
}

func (s *ContentStore) IncrementViews(ctx context.Context, id string) error {
	if err := s.backend.IncrementViews(ctx, id); err != nil {
		return writeError("increment views", err)
	}
	return nil
}

// SearchPosts filters by category ("all" or empty matches every category)
// and then by a case-insensitive substring of title, excerpt or any tag.
func (s *ContentStore) SearchPosts(ctx context.Context, query, category string) []*domain.Post {
	filter := domain.NewSearchFilter(query, category)

	posts, err := s.backend.SearchPosts(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("query", filter.Query).Str("category", filter.Category).Msg("Failed to search posts")
		return []*domain.Post{}
	}
	domain.SortByDateDesc(posts)
	return posts
}

// FeaturedPost returns the newest featured post, or nil when none is featured.
func (s *ContentStore) FeaturedPost(ctx context.Context) *domain.Post {
	for _, p := range s.ListPosts(ctx) {
		if p.Featured {
			return p
		}
	}
	return nil
}

// RelatedPosts returns up to limit other posts in the same category, newest
// first. A non-positive limit means DefaultRelatedLimit.
func (s *ContentStore) RelatedPosts(ctx context.Context, id string, limit int) ([]*domain.Post, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates := s.SearchPosts(ctx, "", post.Category)
	related := make([]*domain.Post, 0, limit)
	for _, p := range candidates {
		if p.ID == post.ID {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// UploadImage validates the payload and hands it to the backend, returning
// the public URL of the stored image.
func (s *ContentStore) UploadImage(ctx context.Context, img *domain.Image) (string, error) {
	if img == nil || len(img.Content) == 0 {
		return "", fmt.Errorf("empty image: %w", domain.ErrUploadRejected)
	}
	if len(img.Content) > domain.MaxImageSize {
		return "", fmt.Errorf("image is %d bytes, limit is %d: %w", len(img.Content), domain.MaxImageSize, domain.ErrUploadRejected)
	}
	declared := img.ContentType
	if declared == genericContentType {
		declared = ""
	}
	if declared != "" && !domain.IsImageType(declared) {
		return "", fmt.Errorf("content type %q is not an image: %w", declared, domain.ErrUploadRejected)
	}

	detected := mimetype.Detect(img.Content)
	if !domain.IsImageType(detected.String()) {
		return "", fmt.Errorf("content looks like %s, not an image: %w", detected.String(), domain.ErrUploadRejected)
	}

	upload := *img
	upload.ContentType = declared
	if upload.ContentType == "" {
		upload.ContentType = detected.String()
	}

	url, err := s.backend.UploadImage(ctx, &upload)
	if err != nil {
		log.Error().Err(err).Str("filename", img.Filename).Msg("Failed to store image")
		return "", fmt.Errorf("failed to store image: %w: %w: %w", domain.ErrUploadRejected, domain.ErrBackendUnavailable, err)
	}

	log.Info().Str("filename", img.Filename).Str("url", url).Msg("Image uploaded")
	return url, nil
}

// ImportMarkdown renders a Markdown document into a new post. The document's
// leading "# " heading becomes the title unless the draft already has one,
// and its images populate the post's image list when the draft has none.
func (s *ContentStore) ImportMarkdown(ctx context.Context, markdown []byte, draft domain.PostDraft) (*domain.Post, error) {
	if len(strings.TrimSpace(string(markdown))) == 0 {
		return nil, fmt.Errorf("markdown document is empty: %w", domain.ErrInvalidInput)
	}

	doc, err := s.markdown.Render(markdown)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	draft.Content = doc.HTML
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = doc.Title
	}
	if len(draft.Images) == 0 {
		draft.Images = doc.Images
	}
	if draft.CoverImage == "" && len(doc.Images) > 0 {
		draft.CoverImage = doc.Images[0]
	}

	return s.CreatePost(ctx, draft)
}

// Seed loads the demo posts and default categories into an empty backend.
func (s *ContentStore) Seed(ctx context.Context) error {
	if err := s.backend.Seed(ctx, domain.DemoPosts(s.now()), domain.DefaultCategoryList()); err != nil {
		return writeError("seed content", err)
	}
	return nil
}
