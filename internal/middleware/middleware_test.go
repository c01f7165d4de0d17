package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	return &buf
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.Use(gin.CustomRecovery(HandlePanics()))
	return r
}

func TestHandlePanics(t *testing.T) {
	logs := captureLogs(t)
	r := newRouter()
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("kaboom")) })
	r.GET("/boom-string", func(c *gin.Context) { panic("plain") })

	for _, path := range []string{"/boom", "/boom-string"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	}

	assert.Contains(t, logs.String(), "kaboom")
	assert.Contains(t, logs.String(), "plain")
}

func TestLoggingMiddleware(t *testing.T) {
	logs := captureLogs(t)
	r := newRouter()
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, logs.String(), `"path":"/ok"`)
	assert.Contains(t, logs.String(), `"status":204`)
}
