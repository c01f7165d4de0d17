package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "./vlog.db", cfg.Local.DBPath)
	assert.Equal(t, "./images", cfg.Local.ImageDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "images/", cfg.Remote.S3.KeyPrefix)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("VLOG_PORT", "9090")
	t.Setenv("VLOG_BACKEND", "remote")
	t.Setenv("DATABASE_URL", "postgres://localhost/vlog")
	t.Setenv("VLOG_S3_BUCKET", "vlog-images")
	t.Setenv("VLOG_S3_USE_PATH_STYLE", "true")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "postgres://localhost/vlog", cfg.Remote.DatabaseURL)
	assert.Equal(t, "vlog-images", cfg.Remote.S3.Bucket)
	assert.True(t, cfg.Remote.S3.UsePathStyle)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VLOG_LOG_LEVEL=debug\n"), 0o600))
	// Registered so the value godotenv sets is cleared after the test.
	t.Setenv("VLOG_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("VLOG_LOG_LEVEL"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "local ok", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "memory" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "local without path", mutate: func(c *Config) { c.Local.DBPath = "" }, wantErr: true},
		{name: "remote without url", mutate: func(c *Config) {
			c.Backend = BackendRemote
			c.Remote.S3.Bucket = "b"
		}, wantErr: true},
		{name: "remote without bucket", mutate: func(c *Config) {
			c.Backend = BackendRemote
			c.Remote.DatabaseURL = "postgres://x"
		}, wantErr: true},
		{name: "remote ok", mutate: func(c *Config) {
			c.Backend = BackendRemote
			c.Remote.DatabaseURL = "postgres://x"
			c.Remote.S3.Bucket = "b"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: 8080, Backend: BackendLocal, Local: LocalConfig{DBPath: "vlog.db"}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
