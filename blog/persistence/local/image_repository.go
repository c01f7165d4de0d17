package local

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dfryer1193/vlog/blog/domain"
	"github.com/dfryer1193/vlog/shared/db"
)

// DefaultImageDir is where uploads are written when no directory is configured.
const DefaultImageDir = "./images"

// ImageRecord is the stored metadata of an uploaded image.
type ImageRecord struct {
	Name        string
	Hash        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// ImageRepository writes uploads to a directory and records them in the images table.
type ImageRepository struct {
	db      *sql.DB
	dir     string
	baseURL string
	now     func() time.Time
}

// NewImageRepository stores files under dir and builds URLs as <baseURL>/images/<name>.
func NewImageRepository(conn *sql.DB, dir, baseURL string) *ImageRepository {
	if dir == "" {
		dir = DefaultImageDir
	}
	return &ImageRepository{
		db:      conn,
		dir:     dir,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Dir returns the directory uploads are written to.
func (r *ImageRepository) Dir() string {
	return r.dir
}

const insertImageQuery = `
	INSERT INTO images (name, hash, content_type, size, created_at)
	VALUES (?, ?, ?, ?, ?)
`

// SaveImage records and writes img, returning its public URL. The row and the
// file are written in one transaction: a failed write leaves no record.
func (r *ImageRepository) SaveImage(ctx context.Context, img *domain.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image cannot be nil")
	}

	now := r.now()
	if img.Name == "" {
		img.Name = domain.NewImageName(img.Filename, img.ContentType, now)
	}

	sum := sha256.Sum256(img.Content)

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		_, err := db.GetExecutor(txCtx, r.db).ExecContext(txCtx, insertImageQuery,
			img.Name,
			hex.EncodeToString(sum[:]),
			img.ContentType,
			len(img.Content),
			now.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert image record: %w", err)
		}

		if err := os.MkdirAll(r.dir, 0755); err != nil {
			return fmt.Errorf("failed to create image directory: %w", err)
		}

		localPath := filepath.Join(r.dir, filepath.Base(img.Name))
		if err := os.WriteFile(localPath, img.Content, 0644); err != nil {
			return fmt.Errorf("failed to write image file: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return r.imageURL(img.Name)
}

func (r *ImageRepository) imageURL(name string) (string, error) {
	if r.baseURL == "" {
		return "/images/" + url.PathEscape(name), nil
	}
	u, err := url.JoinPath(r.baseURL, "images", name)
	if err != nil {
		return "", fmt.Errorf("failed to build image URL: %w", err)
	}
	return u, nil
}

const getImageQuery = `
	SELECT name, hash, content_type, size, created_at
	FROM images
	WHERE name = ?
`

// GetImage retrieves the metadata of a stored image.
func (r *ImageRepository) GetImage(ctx context.Context, name string) (*ImageRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("image name cannot be empty")
	}

	var rec ImageRecord
	err := r.db.QueryRowContext(ctx, getImageQuery, name).Scan(
		&rec.Name,
		&rec.Hash,
		&rec.ContentType,
		&rec.Size,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("image %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return &rec, nil
}
