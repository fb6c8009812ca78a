package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// ContactRepository contact inquiry store
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a ContactRepository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts an inquiry
func (r *ContactRepository) Create(ctx context.Context, inquiry *models.ContactInquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// List returns inquiries, optionally filtered by status, newest first
func (r *ContactRepository) List(ctx context.Context, status string) ([]*models.ContactInquiry, error) {
	var list []*models.ContactInquiry
	query := r.db.WithContext(ctx).Model(&models.ContactInquiry{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&list).Error
	return list, err
}

// UpdateStatus sets an inquiry's status
func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ContactInquiry{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected, result.Error
}
