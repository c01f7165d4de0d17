package rest

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dfryer1193/vlog/api"
	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/gin-gonic/gin"
)

// maxMarkdownSize bounds the body of an import request.
const maxMarkdownSize = 1 << 20

// parseLimit reads an optional positive "limit" query parameter.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		badRequest(c, "limit must be a positive integer")
		return 0, false
	}
	return n, true
}

// GetPosts lists posts, or searches them when q or category is given.
func (h *Handler) GetPosts(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	query, category := c.Query("q"), c.Query("category")

	var posts []*domain.Post
	if strings.TrimSpace(query) == "" && strings.TrimSpace(category) == "" {
		posts = h.store.ListPosts(c.Request.Context())
	} else {
		posts = h.store.SearchPosts(c.Request.Context(), query, category)
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	c.JSON(http.StatusOK, api.NewPostList(posts))
}

func (h *Handler) GetFeaturedPost(c *gin.Context) {
	post := h.store.FeaturedPost(c.Request.Context())
	if post == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, api.ErrorResponse{Error: "no featured post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.store.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetRelatedPosts(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	posts, err := h.store.RelatedPosts(c.Request.Context(), c.Param("postId"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewPostList(posts))
}

func (h *Handler) PostView(c *gin.Context) {
	if err := h.store.IncrementViews(c.Request.Context(), c.Param("postId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PostPost(c *gin.Context) {
	var draft domain.PostDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.store.CreatePost(c.Request.Context(), draft)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ImportPost creates a post from a Markdown request body. Optional query
// parameters: title, category, tags (comma separated), featured.
func (h *Handler) ImportPost(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMarkdownSize+1))
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}
	if len(body) > maxMarkdownSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "markdown document is too large"})
		return
	}

	draft := domain.PostDraft{
		Title:    c.Query("title"),
		Category: c.Query("category"),
		Tags:     splitTags(c.Query("tags")),
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "featured must be a boolean")
			return
		}
		draft.Featured = featured
	}

	post, err := h.store.ImportMarkdown(c.Request.Context(), body, draft)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// splitTags accepts both ASCII and full-width commas as separators.
func splitTags(raw string) []string {
	tags := []string{}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，'
	})
	for _, t := range fields {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (h *Handler) PatchPost(c *gin.Context) {
	var patch domain.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.store.UpdatePost(c.Request.Context(), c.Param("postId"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.store.DeletePost(c.Request.Context(), c.Param("postId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
