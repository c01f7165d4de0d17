package postgres

import (
	"context"
	"fmt"

	"github.com/dfryer1193/vlog/shared/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type PostgresConfig struct {
	URL string
}

// PostgresDB implements db.Database for the remote table store.
type PostgresDB struct {
	url  string
	pool *pgxpool.Pool
}

var _ db.Database = (*PostgresDB)(nil)

func NewPostgresDB(cfg *PostgresConfig) *PostgresDB {
	return &PostgresDB{
		url: cfg.URL,
	}
}

// Connect creates the connection pool, verifies it and runs pending migrations.
func (p *PostgresDB) Connect(ctx context.Context) error {
	if p.pool != nil {
		return fmt.Errorf("database already connected")
	}
	if p.url == "" {
		return fmt.Errorf("database URL cannot be empty")
	}

	pool, err := pgxpool.New(ctx, p.url)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	p.pool = pool
	log.Debug().Str("host", pool.Config().ConnConfig.Host).Msg("Connected to PostgreSQL")

	return nil
}

// Close closes every pooled connection.
func (p *PostgresDB) Close() error {
	if p.pool == nil {
		return nil
	}

	p.pool.Close()
	p.pool = nil
	return nil
}

// Pool returns the connection pool, or nil before Connect.
func (p *PostgresDB) Pool() *pgxpool.Pool {
	return p.pool
}
