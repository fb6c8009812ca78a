// Package listing manages accommodation and vehicle listings and their images.
package listing

import (
	"context"
	stderrors "errors"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// ListingService serves both listing kinds
type ListingService struct {
	accommodationRepo *repository.AccommodationRepository
	vehicleRepo       *repository.VehicleRepository
	uploads           *upload.UploadService
}

// NewListingService creates a ListingService
func NewListingService(db *gorm.DB, uploads *upload.UploadService) *ListingService {
	return &ListingService{
		accommodationRepo: repository.NewAccommodationRepository(db),
		vehicleRepo:       repository.NewVehicleRepository(db),
		uploads:           uploads,
	}
}

// storeImages saves new images; nil means no images were sent.
func (s *ListingService) storeImages(ctx context.Context, category upload.Category, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	return s.uploads.SaveAll(ctx, category, files)
}

// persist runs write and removes freshly stored images when it fails.
func (s *ListingService) persist(ctx context.Context, stored []string, write func() error) error {
	if err := write(); err != nil {
		s.uploads.DeleteAll(ctx, stored)
		return err
	}
	return nil
}

func notFound(err error, appErr *errors.AppError) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return appErr
	}
	return errors.ErrDatabaseError.WithError(err)
}

func setString(fields map[string]interface{}, column string, v *string) {
	if v != nil {
		fields[column] = *v
	}
}

func setFloat(fields map[string]interface{}, column string, v *float64) {
	if v != nil {
		fields[column] = *v
	}
}

func setInt(fields map[string]interface{}, column string, v *int) {
	if v != nil {
		fields[column] = *v
	}
}
