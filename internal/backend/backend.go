// Package backend opens the content backend selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/dfryer1193/vlog/blog/persistence/local"
	"github.com/dfryer1193/vlog/blog/persistence/remote"
	"github.com/dfryer1193/vlog/internal/config"
	"github.com/dfryer1193/vlog/shared/db"
	"github.com/dfryer1193/vlog/shared/db/postgres"
	"github.com/dfryer1193/vlog/shared/db/sqlite"
	"github.com/rs/zerolog/log"
)

// Opened is a connected backend plus the database it owns.
type Opened struct {
	Backend domain.ContentBackend
	// ImageDir is the directory to serve under /images, empty for the remote backend.
	ImageDir string

	database db.Database
}

func (o *Opened) Close() error {
	return o.database.Close()
}

// Open connects to the configured backend and runs its migrations.
func Open(ctx context.Context, cfg *config.Config) (*Opened, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		return openLocal(ctx, cfg)
	case config.BackendRemote:
		return openRemote(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openLocal(ctx context.Context, cfg *config.Config) (*Opened, error) {
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Local.DBPath})
	if err := database.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	b := local.NewBackend(database.DB(), local.Config{
		ImageDir:  cfg.Local.ImageDir,
		PublicURL: cfg.PublicURL,
	})

	log.Info().Str("path", cfg.Local.DBPath).Str("imageDir", b.ImageDir()).Msg("Using local backend")
	return &Opened{Backend: b, ImageDir: b.ImageDir(), database: database}, nil
}

func openRemote(ctx context.Context, cfg *config.Config) (*Opened, error) {
	database := postgres.NewPostgresDB(&postgres.PostgresConfig{URL: cfg.Remote.DatabaseURL})
	if err := database.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to open remote store: %w", err)
	}

	s3cfg := cfg.Remote.S3
	bucket, err := remote.NewS3Bucket(ctx, remote.S3Config{
		Region:          s3cfg.Region,
		Bucket:          s3cfg.Bucket,
		AccessKeyID:     s3cfg.AccessKeyID,
		SecretAccessKey: s3cfg.SecretAccessKey,
		Endpoint:        s3cfg.Endpoint,
		UsePathStyle:    s3cfg.UsePathStyle,
		PublicURL:       s3cfg.PublicURL,
		KeyPrefix:       s3cfg.KeyPrefix,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to set up image bucket: %w", err)
	}

	log.Info().Str("bucket", s3cfg.Bucket).Msg("Using remote backend")
	return &Opened{Backend: remote.NewBackend(database.Pool(), bucket), database: database}, nil
}
