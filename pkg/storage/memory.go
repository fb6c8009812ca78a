package storage

import (
	"context"
	"io"
	"path"
	"sync"
)

// MemoryUploader keeps files in memory, for development and tests.
type MemoryUploader struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryUploader creates a MemoryUploader
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{files: make(map[string][]byte)}
}

// Save stores r under /uploads/<category>/<filename>.
func (u *MemoryUploader) Save(ctx context.Context, category, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p := path.Join("/uploads", category, filename)
	u.mu.Lock()
	u.files[p] = data
	u.mu.Unlock()
	return p, nil
}

// Delete removes a stored file; missing files are ignored.
func (u *MemoryUploader) Delete(ctx context.Context, storedPath string) error {
	u.mu.Lock()
	delete(u.files, storedPath)
	u.mu.Unlock()
	return nil
}

// Has reports whether a file is stored
func (u *MemoryUploader) Has(storedPath string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.files[storedPath]
	return ok
}

// Len number of stored files
func (u *MemoryUploader) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.files)
}
