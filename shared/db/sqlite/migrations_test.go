package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	conn := newTestDB(t).DB()

	objects := []struct {
		kind string
		name string
	}{
		{"table", "schema_migrations"},
		{"table", "kv_entries"},
		{"table", "images"},
		{"index", "idx_images_created_at"},
	}

	for _, o := range objects {
		var count int
		err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", o.kind, o.name).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check %s %s: %v", o.kind, o.name, err)
		}
		if count != 1 {
			t.Errorf("%s %s not created", o.kind, o.name)
		}
	}

	var version int
	if err := conn.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	database := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(ctx); err != nil {
		t.Fatalf("First Connect() error = %v", err)
	}
	database.Close()

	database = NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(ctx); err != nil {
		t.Fatalf("Second Connect() error = %v", err)
	}
	defer database.Close()

	var count int
	if err := database.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("recorded %d migrations, want %d", count, len(migrations))
	}
}

func TestKVEntriesPrimaryKey(t *testing.T) {
	conn := newTestDB(t).DB()

	insert := `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := conn.Exec(insert, "vlog_categories", "[]"); err != nil {
		t.Fatalf("Failed to insert entry: %v", err)
	}
	if _, err := conn.Exec(insert, "vlog_categories", "[]"); err == nil {
		t.Error("Expected duplicate key insert to fail")
	}
}
