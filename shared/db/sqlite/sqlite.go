package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dfryer1193/vlog/shared/db"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "./vlog.db"

type SQLiteConfig struct {
	Path string
}

// SQLiteDB implements db.Database for the local key-value store.
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

var _ db.Database = (*SQLiteDB)(nil)

// NewSQLiteDB creates an unconnected SQLite database handle.
func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	return &SQLiteDB{
		dbPath: path,
	}
}

// Connect opens the database file, applies pragmas and runs pending migrations.
func (s *SQLiteDB) Connect(ctx context.Context) error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Read-modify-write transactions are serialized on one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := runMigrations(ctx, conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = conn
	log.Debug().Str("path", s.dbPath).Msg("Connected to SQLite database")

	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB, or nil before Connect.
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}
