// Command vlog-seed loads the demo posts and default categories into the
// configured backend. It changes nothing once any post exists.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/dfryer1193/vlog/blog/application"
	"github.com/dfryer1193/vlog/internal/backend"
	"github.com/dfryer1193/vlog/internal/config"
	"github.com/dfryer1193/vlog/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed content")
	}
}

// run seeds the configured backend and closes it before returning.
func run(ctx context.Context, cfg *config.Config) error {
	opened, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open content backend: %w", err)
	}
	defer opened.Close()

	store := application.NewContentStore(opened.Backend)
	if err := store.Seed(ctx); err != nil {
		return err
	}

	log.Info().
		Int("posts", len(store.ListPosts(ctx))).
		Strs("categories", store.ListCategories(ctx)).
		Msg("Seed complete")
	return nil
}
