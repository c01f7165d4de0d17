package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/vlog/shared/db"
	"github.com/goccy/go-json"
)

// Persistent entry names. Each holds one JSON blob that is rewritten wholesale.
const (
	PostsKey      = "vlog_posts"
	CategoriesKey = "vlog_categories"
)

// KVStore is a named-blob store on top of the kv_entries table.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(conn *sql.DB) *KVStore {
	return &KVStore{db: conn}
}

const getEntryQuery = `SELECT value FROM kv_entries WHERE key = ?`

// Get decodes the entry stored under key into dst. It reports false when the
// entry has never been written.
func (s *KVStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	err := db.GetExecutor(ctx, s.db).QueryRowContext(ctx, getEntryQuery, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read entry %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode entry %q: %w", key, err)
	}

	return true, nil
}

const putEntryQuery = `
	INSERT INTO kv_entries (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

// Put encodes v and overwrites the entry stored under key.
func (s *KVStore) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode entry %q: %w", key, err)
	}

	_, err = db.GetExecutor(ctx, s.db).ExecContext(ctx, putEntryQuery, key, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write entry %q: %w", key, err)
	}

	return nil
}
