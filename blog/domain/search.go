package domain

import "strings"

// AllCategories is the category selector that disables category filtering.
const AllCategories = "all"

// SearchFilter combines the category and text filters of a post search.
type SearchFilter struct {
	Query    string
	Category string
}

// NewSearchFilter trims the query and normalizes the category selector.
func NewSearchFilter(query, category string) SearchFilter {
	category = strings.TrimSpace(category)
	if category == AllCategories {
		category = ""
	}
	return SearchFilter{
		Query:    strings.TrimSpace(query),
		Category: category,
	}
}

// Matches applies the category filter, then the case-insensitive text filter
// over title, excerpt and tags.
func (f SearchFilter) Matches(p *Post) bool {
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Excerpt), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Filter keeps the matching posts in their original order.
func (f SearchFilter) Filter(posts []*Post) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
