package rest

import (
	"net/http"

	"github.com/dfryer1193/vlog/api"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, api.CategoryList{Categories: h.store.ListCategories(c.Request.Context())})
}

// PostCategory adds a category and answers with the resulting list.
func (h *Handler) PostCategory(c *gin.Context) {
	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.store.AddCategory(c.Request.Context(), req.Name); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.CategoryList{Categories: h.store.ListCategories(c.Request.Context())})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Request.Context(), c.Param("name")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
