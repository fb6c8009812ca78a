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

// VehicleInput multipart form of a vehicle. Nil fields are left untouched on update.
type VehicleInput struct {
	Purpose         *string  `form:"purpose" json:"purpose"`
	Make            *string  `form:"make" json:"make"`
	Model           *string  `form:"model" json:"model"`
	Year            *int     `form:"year" json:"year"`
	VehicleType     *string  `form:"vehicle_type" json:"vehicle_type"`
	Transmission    *string  `form:"transmission" json:"transmission"`
	FuelType        *string  `form:"fuel_type" json:"fuel_type"`
	SeatingCapacity *int     `form:"seating_capacity" json:"seating_capacity"`
	DailyRate       *float64 `form:"daily_rate" json:"daily_rate"`
	SalePrice       *float64 `form:"sale_price" json:"sale_price"`
	Status          *string  `form:"status" json:"status"`
}

func (in *VehicleInput) validate() error {
	if in.Purpose != nil && !models.VehiclePurpose(*in.Purpose).Valid() {
		return errors.ErrInvalidParams.WithMessage("Invalid vehicle purpose")
	}
	if in.Status != nil && !models.VehicleStatus(*in.Status).Valid() {
		return errors.ErrInvalidStatus
	}
	if (in.Make != nil && *in.Make == "") || (in.Model != nil && *in.Model == "") {
		return errors.ErrInvalidParams.WithMessage("make and model must not be empty")
	}
	if (in.DailyRate != nil && *in.DailyRate < 0) || (in.SalePrice != nil && *in.SalePrice < 0) {
		return errors.ErrInvalidParams.WithMessage("prices must not be negative")
	}
	return nil
}

// columns is the update allow-list
func (in *VehicleInput) columns() map[string]interface{} {
	fields := make(map[string]interface{})
	setString(fields, "purpose", in.Purpose)
	setString(fields, "make", in.Make)
	setString(fields, "model", in.Model)
	setInt(fields, "year", in.Year)
	setString(fields, "vehicle_type", in.VehicleType)
	setString(fields, "transmission", in.Transmission)
	setString(fields, "fuel_type", in.FuelType)
	setInt(fields, "seating_capacity", in.SeatingCapacity)
	setFloat(fields, "daily_rate", in.DailyRate)
	setFloat(fields, "sale_price", in.SalePrice)
	setString(fields, "status", in.Status)
	return fields
}

// ListVehicles exact-match filtered list, newest first
func (s *ListingService) ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]*models.Vehicle, error) {
	items, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}

// GetVehicle by id
func (s *ListingService) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	item, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errors.ErrVehicleNotFound)
	}
	return item, nil
}

// CreateVehicle stores the images, then the row. Purpose, make and model are required.
func (s *ListingService) CreateVehicle(ctx context.Context, in *VehicleInput, files []*multipart.FileHeader) (*models.Vehicle, error) {
	if in.Purpose == nil || in.Make == nil || in.Model == nil {
		return nil, errors.ErrInvalidParams.WithMessage("purpose, make and model are required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	images, err := s.storeImages(ctx, upload.CategoryVehicles, files)
	if err != nil {
		return nil, err
	}

	item := &models.Vehicle{
		Purpose:      models.VehiclePurpose(*in.Purpose),
		Make:         *in.Make,
		Model:        *in.Model,
		VehicleType:  utils.SafeString(in.VehicleType),
		Transmission: utils.SafeString(in.Transmission),
		FuelType:     utils.SafeString(in.FuelType),
		DailyRate:    in.DailyRate,
		SalePrice:    in.SalePrice,
		Status:       models.VehicleStatus(utils.SafeString(in.Status)),
		Images:       models.StringList(images),
	}
	if in.Year != nil {
		item.Year = *in.Year
	}
	if in.SeatingCapacity != nil {
		item.SeatingCapacity = *in.SeatingCapacity
	}

	err = s.persist(ctx, images, func() error {
		if err := s.vehicleRepo.Create(ctx, item); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateVehicle writes the allow-listed fields. New images replace the previous
// list and the previous files are removed.
func (s *ListingService) UpdateVehicle(ctx context.Context, id string, in *VehicleInput, files []*multipart.FileHeader) error {
	if err := in.validate(); err != nil {
		return err
	}
	current, err := s.GetVehicle(ctx, id)
	if err != nil {
		return err
	}

	images, err := s.storeImages(ctx, upload.CategoryVehicles, files)
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
		if err := s.vehicleRepo.Update(ctx, id, fields); err != nil {
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

// DeleteVehicle removes the row and its image files.
func (s *ListingService) DeleteVehicle(ctx context.Context, id string) error {
	current, err := s.GetVehicle(ctx, id)
	if err != nil {
		return err
	}
	rows, err := s.vehicleRepo.Delete(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrVehicleNotFound
	}
	s.uploads.DeleteAll(ctx, current.Images)
	return nil
}
