package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalUploader writes files under Dir/<category>/ and serves them at
// PublicPrefix/<category>/<file>.
type LocalUploader struct {
	dir    string
	prefix string
}

// NewLocalUploader creates a LocalUploader. Directories are created on first use.
func NewLocalUploader(dir, publicPrefix string) *LocalUploader {
	if dir == "" {
		dir = "uploads"
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &LocalUploader{dir: dir, prefix: "/" + strings.Trim(publicPrefix, "/")}
}

// Dir returns the root directory, for static serving.
func (u *LocalUploader) Dir() string {
	return u.dir
}

// PublicPrefix returns the URL prefix of stored files.
func (u *LocalUploader) PublicPrefix() string {
	return u.prefix
}

// Save writes r to Dir/category/filename.
func (u *LocalUploader) Save(ctx context.Context, category, filename string, r io.Reader) (string, error) {
	if strings.ContainsAny(category, `/\`) || filename != filepath.Base(filename) {
		return "", ErrInvalidPath
	}
	target := filepath.Join(u.dir, category)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	f, err := os.Create(filepath.Join(target, filename))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path.Join(u.prefix, category, filename), nil
}

// Delete removes a stored file. A missing file is not an error.
func (u *LocalUploader) Delete(ctx context.Context, storedPath string) error {
	local, err := u.localPath(storedPath)
	if err != nil {
		return err
	}
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// localPath maps /uploads/<category>/<file> to a path inside Dir.
func (u *LocalUploader) localPath(storedPath string) (string, error) {
	clean := path.Clean("/" + storedPath)
	if !strings.HasPrefix(clean, u.prefix+"/") {
		return "", ErrInvalidPath
	}
	rel := strings.TrimPrefix(clean, u.prefix+"/")
	return filepath.Join(u.dir, filepath.FromSlash(rel)), nil
}
