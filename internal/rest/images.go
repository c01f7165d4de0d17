package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/dfryer1193/vlog/api"
	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for the form framing around the file part.
const multipartOverhead = 64 << 10

// PostImage accepts a multipart upload in the "file" field.
func (h *Handler) PostImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxImageSize+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "image exceeds 5 MB"})
			return
		}
		badRequest(c, "multipart field \"file\" is required")
		return
	}
	if header.Size > domain.MaxImageSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "image exceeds 5 MB"})
		return
	}

	f, err := header.Open()
	if err != nil {
		badRequest(c, "failed to open uploaded file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, "failed to read uploaded file")
		return
	}

	url, err := h.store.UploadImage(c.Request.Context(), &domain.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.UploadResponse{URL: url})
}
