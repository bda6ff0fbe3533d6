// Package storage puts user files on local disk or an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"piq/internal/config"
)

// KeyPrefix is the first path segment of every stored image.
const KeyPrefix = "images/"

type Uploader interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object behind a URL returned by Upload.
	Delete(ctx context.Context, url string) error
}

// NewImageKey builds images/YYYY/MM/DD/<uuid><ext>.
func NewImageKey(now time.Time, ext string) string {
	return fmt.Sprintf("%s%d/%02d/%02d/%s%s", KeyPrefix, now.Year(), now.Month(), now.Day(), uuid.New().String(), ext)
}

// KeyFromURL recovers the object key from a stored URL.
func KeyFromURL(url string) (string, bool) {
	idx := strings.Index(url, KeyPrefix)
	if idx < 0 {
		return "", false
	}
	key := path.Clean(url[idx:])
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return key, true
}

// ExtForContentType maps sniffed image types to a file extension.
func ExtForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".bin"
	}
}

// New builds the uploader selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalUploader(cfg.LocalDir, "/uploads"), nil
	case "s3":
		return NewS3Uploader(ctx, cfg)
	case "minio":
		return NewMinioUploader(cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
