package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes files below baseDir and serves them from urlBase.
type LocalUploader struct {
	baseDir string
	urlBase string
}

func NewLocalUploader(baseDir, urlBase string) *LocalUploader {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &LocalUploader{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/")}
}

func (u *LocalUploader) BaseDir() string { return u.baseDir }

func (u *LocalUploader) Upload(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	absPath, err := u.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return u.urlBase + "/" + filepath.ToSlash(key), nil
}

// Delete removes the file behind url. A missing file is not an error.
func (u *LocalUploader) Delete(_ context.Context, url string) error {
	key, ok := KeyFromURL(url)
	if !ok {
		return fmt.Errorf("storage: url %q has no object key", url)
	}
	absPath, err := u.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (u *LocalUploader) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(u.baseDir, clean), nil
}
