package listing

import (
	"context"
	"mime/multipart"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// AccommodationInput multipart form of an accommodation. Nil fields are left
// untouched on update.
type AccommodationInput struct {
	Type          *string  `form:"type" json:"type"`
	Name          *string  `form:"name" json:"name"`
	Description   *string  `form:"description" json:"description"`
	City          *string  `form:"city" json:"city"`
	District      *string  `form:"district" json:"district"`
	PricePerNight *float64 `form:"price_per_night" json:"price_per_night"`
	PricePerEvent *float64 `form:"price_per_event" json:"price_per_event"`
	Status        *string  `form:"status" json:"status"`
}

func (in *AccommodationInput) validate() error {
	if in.Type != nil && !models.AccommodationType(*in.Type).Valid() {
		return errors.ErrInvalidParams.WithMessage("Invalid accommodation type")
	}
	if in.Status != nil && !models.AccommodationStatus(*in.Status).Valid() {
		return errors.ErrInvalidStatus
	}
	if in.Name != nil && *in.Name == "" {
		return errors.ErrInvalidParams.WithMessage("name must not be empty")
	}
	if (in.PricePerNight != nil && *in.PricePerNight < 0) || (in.PricePerEvent != nil && *in.PricePerEvent < 0) {
		return errors.ErrInvalidParams.WithMessage("prices must not be negative")
	}
	return nil
}

// columns is the update allow-list
func (in *AccommodationInput) columns() map[string]interface{} {
	fields := make(map[string]interface{})
	setString(fields, "type", in.Type)
	setString(fields, "name", in.Name)
	setString(fields, "description", in.Description)
	setString(fields, "city", in.City)
	setString(fields, "district", in.District)
	setFloat(fields, "price_per_night", in.PricePerNight)
	setFloat(fields, "price_per_event", in.PricePerEvent)
	setString(fields, "status", in.Status)
	return fields
}

// ListAccommodations exact-match filtered list, newest first
func (s *ListingService) ListAccommodations(ctx context.Context, filter repository.AccommodationFilter) ([]*models.Accommodation, error) {
	items, err := s.accommodationRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}

// GetAccommodation by id
func (s *ListingService) GetAccommodation(ctx context.Context, id string) (*models.Accommodation, error) {
	item, err := s.accommodationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errors.ErrAccommodationNotFound)
	}
	return item, nil
}

// CreateAccommodation stores the images, then the row. Type and name are required.
func (s *ListingService) CreateAccommodation(ctx context.Context, in *AccommodationInput, files []*multipart.FileHeader) (*models.Accommodation, error) {
	if in.Type == nil || in.Name == nil {
		return nil, errors.ErrInvalidParams.WithMessage("type and name are required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	images, err := s.storeImages(ctx, upload.CategoryAccommodations, files)
	if err != nil {
		return nil, err
	}

	item := &models.Accommodation{
		Type:          models.AccommodationType(*in.Type),
		Name:          *in.Name,
		Description:   utils.SafeString(in.Description),
		City:          utils.SafeString(in.City),
		District:      utils.SafeString(in.District),
		PricePerNight: in.PricePerNight,
		PricePerEvent: in.PricePerEvent,
		Status:        models.AccommodationStatus(utils.SafeString(in.Status)),
		Images:        models.StringList(images),
	}
	err = s.persist(ctx, images, func() error {
		if err := s.accommodationRepo.Create(ctx, item); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateAccommodation writes the allow-listed fields. New images replace the
// previous list and the previous files are removed.
func (s *ListingService) UpdateAccommodation(ctx context.Context, id string, in *AccommodationInput, files []*multipart.FileHeader) error {
	if err := in.validate(); err != nil {
		return err
	}
	current, err := s.GetAccommodation(ctx, id)
	if err != nil {
		return err
	}

	images, err := s.storeImages(ctx, upload.CategoryAccommodations, files)
	if err != nil {
		return err
	}
	fields := in.columns()
	if images != nil {
		fields["images"] = models.StringList(images)
	}
	if len(fields) == 0 {
		return nil
	}

	err = s.persist(ctx, images, func() error {
		if err := s.accommodationRepo.Update(ctx, id, fields); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if images != nil {
		s.uploads.DeleteAll(ctx, current.Images)
	}
	return nil
}

// DeleteAccommodation removes the row and its image files.
func (s *ListingService) DeleteAccommodation(ctx context.Context, id string) error {
	current, err := s.GetAccommodation(ctx, id)
	if err != nil {
		return err
	}
	rows, err := s.accommodationRepo.Delete(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrAccommodationNotFound
	}
	s.uploads.DeleteAll(ctx, current.Images)
	return nil
}
