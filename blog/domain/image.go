package domain

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload (5 MB).
const MaxImageSize = 5 * 1024 * 1024

// Image is an uploaded image payload on its way to a backend.
type Image struct {
	// Name is the unique object name chosen for storage, e.g. "1712345678901-1a2b3c4d.png".
	Name        string
	Filename    string
	ContentType string
	Content     []byte
}

// NewImageName builds a collision-avoiding object name: a millisecond
// timestamp followed by a random suffix and the file extension.
func NewImageName(filename, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, ext)
}

// IsImageType reports whether a MIME type names an image.
func IsImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
