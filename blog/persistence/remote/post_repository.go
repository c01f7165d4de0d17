package remote

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// postColumns is the fixed column order scanned by scanPost.
var postColumns = []string{
	"id", "title", "content", "excerpt", "category", "tags",
	"cover_image", "images", "video_url", "featured", "date", "views",
}

var postColumnList = strings.Join(postColumns, ", ")

// PostRepository reads and writes the posts table.
type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

// postRow mirrors one row of the posts table.
type postRow struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	Excerpt    string    `db:"excerpt"`
	Category   string    `db:"category"`
	Tags       []string  `db:"tags"`
	CoverImage string    `db:"cover_image"`
	Images     []string  `db:"images"`
	VideoURL   string    `db:"video_url"`
	Featured   bool      `db:"featured"`
	Date       time.Time `db:"date"`
	Views      int64     `db:"views"`
}

// toDomain converts a postRow to a domain.Post, serializing the numeric id.
func (pr *postRow) toDomain() *domain.Post {
	tags := pr.Tags
	if tags == nil {
		tags = []string{}
	}
	images := pr.Images
	if images == nil {
		images = []string{}
	}

	return &domain.Post{
		ID:         strconv.FormatInt(pr.ID, 10),
		Title:      pr.Title,
		Content:    pr.Content,
		Excerpt:    pr.Excerpt,
		Category:   pr.Category,
		Tags:       tags,
		CoverImage: pr.CoverImage,
		Images:     images,
		VideoURL:   pr.VideoURL,
		Featured:   pr.Featured,
		Date:       pr.Date.UTC(),
		Views:      pr.Views,
	}
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var pr postRow
	err := row.Scan(
		&pr.ID,
		&pr.Title,
		&pr.Content,
		&pr.Excerpt,
		&pr.Category,
		&pr.Tags,
		&pr.CoverImage,
		&pr.Images,
		&pr.VideoURL,
		&pr.Featured,
		&pr.Date,
		&pr.Views,
	)
	if err != nil {
		return nil, err
	}
	return pr.toDomain(), nil
}

func collectPosts(rows pgx.Rows) ([]*domain.Post, error) {
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// parseID converts a post id to the table's BIGINT key. Ids that cannot be
// keys cannot exist, so they report ErrNotFound.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

var listPostsQuery = `SELECT ` + postColumnList + ` FROM posts ORDER BY date DESC, id DESC`

// ListPosts returns all posts, newest first.
func (r *PostRepository) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	rows, err := r.db.Query(ctx, listPostsQuery)
	if err != nil {
		return nil, handlePostgresError("list posts", err)
	}
	return collectPosts(rows)
}

var getPostQuery = `SELECT ` + postColumnList + ` FROM posts WHERE id = $1`

// GetPost retrieves a single post by ID
func (r *PostRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	p, err := scanPost(r.db.QueryRow(ctx, getPostQuery, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, handlePostgresError("get post", err)
	}

	return p, nil
}

var insertPostQuery = `
	INSERT INTO posts (title, content, excerpt, category, tags, cover_image, images, video_url, featured, date, views)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + postColumnList

// CreatePost inserts p. The database assigns the id; any id on p is ignored.
func (r *PostRepository) CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if p == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	created, err := scanPost(r.db.QueryRow(ctx, insertPostQuery,
		p.Title,
		p.Content,
		p.Excerpt,
		p.Category,
		nonNil(p.Tags),
		p.CoverImage,
		nonNil(p.Images),
		p.VideoURL,
		p.Featured,
		p.Date,
		p.Views,
	))
	if err != nil {
		return nil, handlePostgresError("create post", err)
	}

	return created, nil
}

// buildUpdate renders an UPDATE that sets only the patched columns.
func buildUpdate(key int64, patch domain.PostPatch) (string, []any) {
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("posts")

	var assignments []string
	if patch.Title != nil {
		assignments = append(assignments, ub.Assign("title", *patch.Title))
	}
	if patch.Content != nil {
		assignments = append(assignments, ub.Assign("content", *patch.Content))
	}
	if patch.Excerpt != nil {
		assignments = append(assignments, ub.Assign("excerpt", *patch.Excerpt))
	}
	if patch.Category != nil {
		assignments = append(assignments, ub.Assign("category", *patch.Category))
	}
	if patch.Tags != nil {
		assignments = append(assignments, ub.Assign("tags", nonNil(*patch.Tags)))
	}
	if patch.CoverImage != nil {
		assignments = append(assignments, ub.Assign("cover_image", *patch.CoverImage))
	}
	if patch.Images != nil {
		assignments = append(assignments, ub.Assign("images", nonNil(*patch.Images)))
	}
	if patch.VideoURL != nil {
		assignments = append(assignments, ub.Assign("video_url", *patch.VideoURL))
	}
	if patch.Featured != nil {
		assignments = append(assignments, ub.Assign("featured", *patch.Featured))
	}

	ub.Set(assignments...)
	ub.Where(ub.Equal("id", key))
	ub.SQL("RETURNING " + postColumnList)

	return ub.Build()
}

// UpdatePost writes the patched columns in a single statement.
func (r *PostRepository) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	if patch.IsEmpty() {
		return r.GetPost(ctx, id)
	}

	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query, args := buildUpdate(key, patch)
	updated, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, handlePostgresError("update post", err)
	}

	return updated, nil
}

const deletePostQuery = `DELETE FROM posts WHERE id = $1`

// DeletePost removes the row; deleting an absent post is a no-op.
func (r *PostRepository) DeletePost(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return nil
	}

	if _, err := r.db.Exec(ctx, deletePostQuery, key); err != nil {
		return handlePostgresError("delete post", err)
	}
	return nil
}

const incrementViewsQuery = `SELECT increment_post_views($1)`

// IncrementViews calls the server-side procedure so concurrent viewers never
// overwrite each other's increments.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return nil
	}

	if _, err := r.db.Exec(ctx, incrementViewsQuery, key); err != nil {
		return handlePostgresError("increment views", err)
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildSearch renders the filtered listing: category equality first, then a
// case-insensitive substring match over title, excerpt and every tag.
func buildSearch(filter domain.SearchFilter) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(postColumns...).From("posts")

	if filter.Category != "" && filter.Category != domain.AllCategories {
		sb.Where(sb.Equal("category", filter.Category))
	}

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		sb.Where(sb.Or(
			"title ILIKE "+sb.Var(pattern),
			"excerpt ILIKE "+sb.Var(pattern),
			"EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE "+sb.Var(pattern)+")",
		))
	}

	sb.OrderBy("date DESC", "id DESC")
	return sb.Build()
}

// SearchPosts runs the filter in the database and keeps the date ordering.
func (r *PostRepository) SearchPosts(ctx context.Context, filter domain.SearchFilter) ([]*domain.Post, error) {
	query, args := buildSearch(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("search posts", err)
	}
	return collectPosts(rows)
}

const countPostsQuery = `SELECT COUNT(*) FROM posts`

// CountPosts returns the number of stored posts.
func (r *PostRepository) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, countPostsQuery).Scan(&n); err != nil {
		return 0, handlePostgresError("count posts", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
