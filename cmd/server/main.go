package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfryer1193/vlog/blog/application"
	"github.com/dfryer1193/vlog/internal/backend"
	"github.com/dfryer1193/vlog/internal/config"
	"github.com/dfryer1193/vlog/internal/logging"
	"github.com/dfryer1193/vlog/internal/middleware"
	"github.com/dfryer1193/vlog/internal/rest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	opened, err := backend.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open content backend")
	}
	defer opened.Close()

	store := application.NewContentStore(opened.Backend,
		application.WithMarkdownRenderer(application.NewMarkdownRenderer(cfg.PublicURL)),
	)
	if err := store.Seed(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to seed demo content")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))
	r.MaxMultipartMemory = 8 << 20

	rest.NewApi(r, store, cfg.Backend)
	if opened.ImageDir != "" {
		r.Static("/images", opened.ImageDir)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("backend", cfg.Backend).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
