// Package storage stores uploaded images on local disk or Aliyun OSS.
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
)

// Uploader saves and removes uploaded files. Save returns the public path that is
// persisted on the owning entity; Delete accepts that same path.
type Uploader interface {
	Save(ctx context.Context, category, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, storedPath string) error
}

var (
	// ErrInvalidType the file is not a JPG, PNG or WEBP image
	ErrInvalidType = errors.New("storage: invalid file type")
	// ErrTooLarge the file exceeds the size limit
	ErrTooLarge = errors.New("storage: file too large")
	// ErrInvalidPath the stored path does not belong to this backend
	ErrInvalidPath = errors.New("storage: invalid path")
)

var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ContentType returns the MIME type for an allowed image extension, or "".
func ContentType(filename string) string {
	return allowedTypes[strings.ToLower(path.Ext(filename))]
}

// ValidateImage checks the extension, the declared MIME type and the sniffed
// content of an upload. head is the first bytes of the file (up to 512).
func ValidateImage(filename, declaredType string, size, maxSize int64, head []byte) error {
	want := ContentType(filename)
	if want == "" {
		return ErrInvalidType
	}
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if declared != "" && declared != "application/octet-stream" && declared != want {
		return ErrInvalidType
	}
	if maxSize > 0 && size > maxSize {
		return ErrTooLarge
	}
	sniffed := http.DetectContentType(head)
	if sniffed != want {
		return ErrInvalidType
	}
	return nil
}
