package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dfryer1193/vlog/api"
	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ContentStore is the part of application.ContentStore the API serves.
type ContentStore interface {
	ListCategories(ctx context.Context) []string
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error

	ListPosts(ctx context.Context) []*domain.Post
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	CreatePost(ctx context.Context, draft domain.PostDraft) (*domain.Post, error)
	UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	SearchPosts(ctx context.Context, query, category string) []*domain.Post
	FeaturedPost(ctx context.Context) *domain.Post
	RelatedPosts(ctx context.Context, id string, limit int) ([]*domain.Post, error)
	ImportMarkdown(ctx context.Context, markdown []byte, draft domain.PostDraft) (*domain.Post, error)

	UploadImage(ctx context.Context, img *domain.Image) (string, error)
}

type Handler struct {
	store   ContentStore
	backend string
}

// NewApi registers the blog API on router.
func NewApi(router *gin.Engine, store ContentStore, backend string) *Handler {
	h := &Handler{store: store, backend: backend}

	router.GET("/healthz", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", h.GetCategories)
		v1.POST("/categories", h.PostCategory)
		v1.DELETE("/categories/:name", h.DeleteCategory)

		v1.GET("/posts", h.GetPosts)
		v1.POST("/posts", h.PostPost)
		v1.POST("/posts/import", h.ImportPost)
		v1.GET("/posts/featured", h.GetFeaturedPost)
		v1.GET("/posts/:postId", h.GetPost)
		v1.PATCH("/posts/:postId", h.PatchPost)
		v1.DELETE("/posts/:postId", h.DeletePost)
		v1.GET("/posts/:postId/related", h.GetRelatedPosts)
		v1.POST("/posts/:postId/views", h.PostView)

		v1.POST("/images", h.PostImage)
	}

	return h
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Backend: h.backend})
}

// abortWithError maps domain errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrBackendUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUploadRejected):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: msg})
}
