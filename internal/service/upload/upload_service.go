// Package upload validates and stores uploaded images.
package upload

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/pkg/storage"
)

// Category storage subdirectory of an upload
type Category string

const (
	CategoryAccommodations Category = "accommodations"
	CategoryVehicles       Category = "vehicles"
	CategoryProfiles       Category = "profiles"
	CategoryPayments       Category = "payments"
)

// Form field names
const (
	FieldImages       = "images"
	FieldProfileImage = "profile_image"
	FieldPaymentProof = "payment_proof"
)

// Rule limits for one category
type Rule struct {
	Field    string
	MaxFiles int
	MaxSize  int64
}

// Limits configurable sizes in bytes
type Limits struct {
	ListingMaxSize int64
	ProfileMaxSize int64
	MaxFiles       int
}

// DefaultLimits 5 listing images of 5MB, profile images of 2MB
func DefaultLimits() Limits {
	return Limits{ListingMaxSize: 5 << 20, ProfileMaxSize: 2 << 20, MaxFiles: 5}
}

// UploadService upload service
type UploadService struct {
	uploader storage.Uploader
	rules    map[Category]Rule
}

// NewUploadService creates an UploadService
func NewUploadService(uploader storage.Uploader, limits Limits) *UploadService {
	def := DefaultLimits()
	if limits.ListingMaxSize <= 0 {
		limits.ListingMaxSize = def.ListingMaxSize
	}
	if limits.ProfileMaxSize <= 0 {
		limits.ProfileMaxSize = def.ProfileMaxSize
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = def.MaxFiles
	}
	listing := Rule{Field: FieldImages, MaxFiles: limits.MaxFiles, MaxSize: limits.ListingMaxSize}
	return &UploadService{
		uploader: uploader,
		rules: map[Category]Rule{
			CategoryAccommodations: listing,
			CategoryVehicles:       listing,
			CategoryProfiles:       {Field: FieldProfileImage, MaxFiles: 1, MaxSize: limits.ProfileMaxSize},
			CategoryPayments:       {Field: FieldPaymentProof, MaxFiles: 1, MaxSize: limits.ListingMaxSize},
		},
	}
}

// Rule returns the limits of a category
func (s *UploadService) Rule(category Category) Rule {
	return s.rules[category]
}

// SaveAll validates every file before storing any of them. Files already stored
// are removed again when a later one fails.
func (s *UploadService) SaveAll(ctx context.Context, category Category, files []*multipart.FileHeader) ([]string, error) {
	rule, ok := s.rules[category]
	if !ok {
		return nil, errors.ErrInvalidParams.WithMessage("Unknown upload category")
	}
	if len(files) > rule.MaxFiles {
		return nil, errors.ErrTooManyFiles.WithMessage(fmt.Sprintf("At most %d files are allowed", rule.MaxFiles))
	}

	contents := make([][]byte, len(files))
	for i, fh := range files {
		data, err := s.read(fh, rule)
		if err != nil {
			return nil, err
		}
		contents[i] = data
	}

	paths := make([]string, 0, len(files))
	for i, fh := range files {
		name := utils.GenerateFileName(rule.Field, fh.Filename)
		p, err := s.uploader.Save(ctx, string(category), name, bytes.NewReader(contents[i]))
		if err != nil {
			s.DeleteAll(ctx, paths)
			return nil, errors.ErrUploadFailed.WithError(err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Save stores a single file
func (s *UploadService) Save(ctx context.Context, category Category, file *multipart.FileHeader) (string, error) {
	paths, err := s.SaveAll(ctx, category, []*multipart.FileHeader{file})
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// DeleteAll removes stored files. Failures are logged and otherwise ignored.
func (s *UploadService) DeleteAll(ctx context.Context, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, p); err != nil {
			logger.Warn("delete upload failed", zap.String("path", p), zap.Error(err))
		}
	}
}

func (s *UploadService) read(fh *multipart.FileHeader, rule Rule) ([]byte, error) {
	if fh.Size > rule.MaxSize {
		return nil, errors.ErrFileTooLarge.WithMessage(fmt.Sprintf("File too large. Maximum size is %dMB", rule.MaxSize>>20))
	}

	file, err := fh.Open()
	if err != nil {
		return nil, errors.ErrUploadFailed.WithError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, rule.MaxSize+1))
	if err != nil {
		return nil, errors.ErrUploadFailed.WithError(err)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	err = storage.ValidateImage(fh.Filename, fh.Header.Get("Content-Type"), int64(len(data)), rule.MaxSize, head)
	switch {
	case err == nil:
		return data, nil
	case stderrors.Is(err, storage.ErrTooLarge):
		return nil, errors.ErrFileTooLarge.WithMessage(fmt.Sprintf("File too large. Maximum size is %dMB", rule.MaxSize>>20))
	default:
		return nil, errors.ErrInvalidFileType
	}
}
