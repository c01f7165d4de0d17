package domain

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultTitle replaces a missing post title.
	DefaultTitle = "无题"
	// DefaultCategory is assigned to posts created without a category.
	DefaultCategory = "随笔"

	excerptLength = 120
	ellipsis      = "…"
)

// DefaultCategories is the built-in category set, also served when the
// category list cannot be read.
var DefaultCategories = []string{"随笔", "摄影", "旅行", "技术", "生活"}

// DefaultCategoryList returns a fresh copy of DefaultCategories.
func DefaultCategoryList() []string {
	return slices.Clone(DefaultCategories)
}

// ResolveDraft applies the new-post defaults. It is the only place where
// creation defaults are decided; backends receive a complete Post.
func ResolveDraft(d PostDraft, now time.Time) *Post {
	p := &Post{
		ID:         d.ID,
		Title:      strings.TrimSpace(d.Title),
		Content:    d.Content,
		Excerpt:    strings.TrimSpace(d.Excerpt),
		Category:   strings.TrimSpace(d.Category),
		Tags:       nonNil(slices.Clone(d.Tags)),
		CoverImage: d.CoverImage,
		Images:     nonNil(slices.Clone(d.Images)),
		VideoURL:   d.VideoURL,
		Featured:   d.Featured,
		Date:       d.Date,
		Views:      0,
	}

	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Excerpt == "" {
		p.Excerpt = DeriveExcerpt(p.Content)
	}
	if p.Date.IsZero() {
		p.Date = now
	}
	p.Date = p.Date.UTC()

	return p
}

// ResolvePatch trims the patched title, category and excerpt and applies the
// creation defaults to the ones left blank. A blank excerpt is re-derived from
// the patched content, or dropped from the patch when the content is not being
// changed.
func ResolvePatch(pp PostPatch) PostPatch {
	if pp.Title != nil {
		pp.Title = ptr(orDefault(*pp.Title, DefaultTitle))
	}
	if pp.Category != nil {
		pp.Category = ptr(orDefault(*pp.Category, DefaultCategory))
	}
	if pp.Excerpt != nil {
		switch excerpt := strings.TrimSpace(*pp.Excerpt); {
		case excerpt != "":
			pp.Excerpt = ptr(excerpt)
		case pp.Content != nil:
			pp.Excerpt = ptr(DeriveExcerpt(*pp.Content))
		default:
			pp.Excerpt = nil
		}
	}
	return pp
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// DeriveExcerpt strips markup from content and keeps the first 120 characters,
// appending an ellipsis when the text was longer.
func DeriveExcerpt(content string) string {
	text := []rune(TextContent(content))
	if len(text) <= excerptLength {
		return strings.TrimSpace(string(text))
	}
	return strings.TrimSpace(string(text[:excerptLength])) + ellipsis
}

// TextContent returns the concatenated text nodes of an HTML fragment,
// with entities decoded.
func TextContent(markup string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
