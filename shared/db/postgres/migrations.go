package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type migration struct {
	version int
	name    string
	up      string
}

// Migrator is satisfied by *pgxpool.Pool and *pgx.Conn.
type Migrator interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// migrations is the ordered schema history of the remote store.
var migrations = []migration{
	{
		version: 1,
		name:    "create_categories_table",
		up: `
			CREATE TABLE IF NOT EXISTS categories (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`,
	},
	{
		version: 2,
		name:    "create_posts_table",
		up: `
			CREATE TABLE IF NOT EXISTS posts (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				excerpt TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				tags TEXT[] NOT NULL DEFAULT '{}',
				cover_image TEXT NOT NULL DEFAULT '',
				images TEXT[] NOT NULL DEFAULT '{}',
				video_url TEXT NOT NULL DEFAULT '',
				featured BOOLEAN NOT NULL DEFAULT FALSE,
				date TIMESTAMPTZ NOT NULL DEFAULT now(),
				views BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0)
			);

			CREATE INDEX IF NOT EXISTS idx_posts_date ON posts(date DESC);
			CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
		`,
	},
	{
		version: 3,
		name:    "create_increment_post_views_function",
		up: `
			CREATE OR REPLACE FUNCTION increment_post_views(post_id BIGINT)
			RETURNS VOID
			LANGUAGE sql
			AS $$
				UPDATE posts SET views = views + 1 WHERE id = post_id;
			$$;
		`,
	},
}

// RunMigrations applies every migration newer than the recorded schema version.
func RunMigrations(ctx context.Context, conn Migrator) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = conn.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.up); err != nil {
				return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.version, m.name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
