package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

type Config struct {
	Port      int    `env:"VLOG_PORT" env-default:"8080"`
	Backend   string `env:"VLOG_BACKEND" env-default:"local"`
	PublicURL string `env:"VLOG_PUBLIC_URL" env-default:"http://localhost:8080"`
	Log       LogConfig
	Local     LocalConfig
	Remote    RemoteConfig
}

type LogConfig struct {
	Level  string `env:"VLOG_LOG_LEVEL" env-default:"info"`
	Pretty bool   `env:"VLOG_LOG_PRETTY" env-default:"false"`
}

type LocalConfig struct {
	DBPath   string `env:"SQLITE_DB_PATH" env-default:"./vlog.db"`
	ImageDir string `env:"VLOG_IMAGE_DIR" env-default:"./images"`
}

type RemoteConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	S3          S3Config
}

type S3Config struct {
	Region          string `env:"VLOG_S3_REGION" env-default:"us-east-1"`
	Bucket          string `env:"VLOG_S3_BUCKET"`
	AccessKeyID     string `env:"VLOG_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"VLOG_S3_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"VLOG_S3_ENDPOINT"`
	UsePathStyle    bool   `env:"VLOG_S3_USE_PATH_STYLE" env-default:"false"`
	PublicURL       string `env:"VLOG_S3_PUBLIC_URL"`
	KeyPrefix       string `env:"VLOG_S3_KEY_PREFIX" env-default:"images/"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("VLOG_PORT %d is out of range", c.Port)
	}

	switch c.Backend {
	case BackendLocal:
		if c.Local.DBPath == "" {
			return errors.New("SQLITE_DB_PATH is required for the local backend")
		}
	case BackendRemote:
		if c.Remote.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the remote backend")
		}
		if c.Remote.S3.Bucket == "" {
			return errors.New("VLOG_S3_BUCKET is required for the remote backend")
		}
	default:
		return fmt.Errorf("VLOG_BACKEND must be %q or %q, got %q", BackendLocal, BackendRemote, c.Backend)
	}

	return nil
}
