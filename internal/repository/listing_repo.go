package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// AccommodationFilter exact-match filters; empty fields are ignored.
type AccommodationFilter struct {
	Type     string
	City     string
	District string
	Status   string
}

// VehicleFilter exact-match filters; empty fields are ignored.
type VehicleFilter struct {
	Purpose string
	Status  string
	Make    string
}

// equals adds "column = value" for every non-empty value, in column order.
func equals(db *gorm.DB, columns []string, values []string) *gorm.DB {
	for i, col := range columns {
		if values[i] != "" {
			db = db.Where(col+" = ?", values[i])
		}
	}
	return db
}

// AccommodationRepository accommodation store
type AccommodationRepository struct {
	db *gorm.DB
}

// NewAccommodationRepository creates an AccommodationRepository
func NewAccommodationRepository(db *gorm.DB) *AccommodationRepository {
	return &AccommodationRepository{db: db}
}

// List returns accommodations matching every non-empty filter, newest first
func (r *AccommodationRepository) List(ctx context.Context, f AccommodationFilter) ([]*models.Accommodation, error) {
	var items []*models.Accommodation
	query := equals(r.db.WithContext(ctx).Model(&models.Accommodation{}),
		[]string{"type", "city", "district", "status"},
		[]string{f.Type, f.City, f.District, f.Status})
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

// GetByID returns an accommodation by id
func (r *AccommodationRepository) GetByID(ctx context.Context, id string) (*models.Accommodation, error) {
	var item models.Accommodation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Exists reports whether the accommodation exists
func (r *AccommodationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Accommodation{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts an accommodation
func (r *AccommodationRepository) Create(ctx context.Context, item *models.Accommodation) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update writes the given columns
func (r *AccommodationRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Accommodation{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes an accommodation
func (r *AccommodationRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Accommodation{})
	return result.RowsAffected, result.Error
}

// VehicleRepository vehicle store
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a VehicleRepository
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// List returns vehicles matching every non-empty filter, newest first
func (r *VehicleRepository) List(ctx context.Context, f VehicleFilter) ([]*models.Vehicle, error) {
	var items []*models.Vehicle
	query := equals(r.db.WithContext(ctx).Model(&models.Vehicle{}),
		[]string{"purpose", "status", "make"},
		[]string{f.Purpose, f.Status, f.Make})
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

// GetByID returns a vehicle by id
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var item models.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Exists reports whether the vehicle exists
func (r *VehicleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts a vehicle
func (r *VehicleRepository) Create(ctx context.Context, item *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update writes the given columns
func (r *VehicleRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a vehicle
func (r *VehicleRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vehicle{})
	return result.RowsAffected, result.Error
}
