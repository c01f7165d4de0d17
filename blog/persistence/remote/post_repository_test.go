package remote

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/dfryer1193/vlog/shared/db/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBuildUpdate_OnlyPatchedColumns(t *testing.T) {
	query, args := buildUpdate(42, domain.PostPatch{
		Title:    ptr("New title"),
		Featured: ptr(true),
	})

	assert.Contains(t, query, "UPDATE posts SET")
	assert.Contains(t, query, "title = $1")
	assert.Contains(t, query, "featured = $2")
	assert.Contains(t, query, "WHERE id = $3")
	assert.Contains(t, query, "RETURNING "+postColumnList)
	assert.NotContains(t, query, "content =")
	assert.NotContains(t, query, "views =")
	assert.Equal(t, []any{"New title", true, int64(42)}, args)
}

func TestBuildUpdate_EmptySliceClearsColumn(t *testing.T) {
	var cleared []string
	_, args := buildUpdate(7, domain.PostPatch{Tags: &cleared})

	require.Len(t, args, 2)
	assert.Equal(t, []string{}, args[0])
}

func TestBuildSearch(t *testing.T) {
	tests := []struct {
		name         string
		filter       domain.SearchFilter
		wantContains []string
		wantMissing  []string
		wantArgs     []any
	}{
		{
			name:        "no filter lists everything",
			filter:      domain.NewSearchFilter("", domain.AllCategories),
			wantMissing: []string{"WHERE"},
			wantArgs:    nil,
		},
		{
			name:         "category only",
			filter:       domain.NewSearchFilter("", "旅行"),
			wantContains: []string{"category = $1"},
			wantMissing:  []string{"ILIKE"},
			wantArgs:     []any{"旅行"},
		},
		{
			name:   "query and category",
			filter: domain.NewSearchFilter("  Go  ", "技术"),
			wantContains: []string{
				"category = $1",
				"title ILIKE $2",
				"excerpt ILIKE $3",
				"unnest(tags)",
				"tag ILIKE $4",
				"ORDER BY date DESC, id DESC",
			},
			wantArgs: []any{"技术", "%Go%", "%Go%", "%Go%"},
		},
		{
			name:     "metacharacters are literal",
			filter:   domain.NewSearchFilter("100%", ""),
			wantArgs: []any{`%100\%%`, `%100\%%`, `%100\%%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildSearch(tt.filter)
			for _, s := range tt.wantContains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.wantMissing {
				assert.NotContains(t, query, s)
			}
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
	assert.Equal(t, "咖啡", escapeLike("咖啡"))
}

func TestParseID(t *testing.T) {
	n, err := parseID("123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), n)

	_, err = parseID("1700000000000-abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostRow_ToDomain(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)
	row := postRow{
		ID:    9,
		Title: "t",
		Date:  time.Date(2024, 5, 1, 8, 0, 0, 0, loc),
		Views: 3,
	}

	p := row.toDomain()
	assert.Equal(t, "9", p.ID)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, time.UTC, p.Date.Location())
	assert.True(t, p.Date.Equal(row.Date))
	assert.Equal(t, int64(3), p.Views)
}

// newTestPool connects to VLOG_TEST_DATABASE_URL and empties the content
// tables, skipping the test when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("VLOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VLOG_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database := postgres.NewPostgresDB(&postgres.PostgresConfig{URL: url})
	require.NoError(t, database.Connect(ctx))
	t.Cleanup(func() { database.Close() })

	_, err := database.Pool().Exec(ctx, "TRUNCATE posts, categories RESTART IDENTITY")
	require.NoError(t, err)

	return database.Pool()
}

func TestPostRepository_Integration(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPostRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	older, err := repo.CreatePost(ctx, domain.ResolveDraft(domain.PostDraft{
		Title: "Older", Content: "<p>old</p>", Category: "技术", Tags: []string{"Golang"}, Date: now.Add(-time.Hour),
	}, now))
	require.NoError(t, err)
	newer, err := repo.CreatePost(ctx, domain.ResolveDraft(domain.PostDraft{
		ID: "ignored", Title: "Newer", Content: "<p>new</p>", Category: "旅行",
	}, now))
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", newer.ID)

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)

	updated, err := repo.UpdatePost(ctx, older.ID, domain.PostPatch{Featured: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Older", updated.Title)

	_, err = repo.UpdatePost(ctx, "999999", domain.PostPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(ctx, older.ID))
	}
	got, err := repo.GetPost(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)

	found, err := repo.SearchPosts(ctx, domain.NewSearchFilter("golang", domain.AllCategories))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, older.ID, found[0].ID)

	require.NoError(t, repo.DeletePost(ctx, older.ID))
	require.NoError(t, repo.DeletePost(ctx, older.ID))
	_, err = repo.GetPost(ctx, older.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
