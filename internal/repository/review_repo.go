package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// ReviewRepository review store
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a ReviewRepository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByID returns a review by id
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListApprovedByTarget returns approved reviews of one accommodation or vehicle with
// the reviewer's name, newest first. column is accommodation_id or vehicle_id.
func (r *ReviewRepository) ListApprovedByTarget(ctx context.Context, column, targetID string) ([]*models.ReviewWithAuthor, error) {
	var list []*models.ReviewWithAuthor
	err := r.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.*, c.first_name, c.last_name").
		Joins("JOIN clients c ON c.id = r.client_id").
		Where("r."+column+" = ? AND r.status = ?", targetID, models.ReviewStatusApproved).
		Order("r.created_at DESC").
		Scan(&list).Error
	return list, err
}

// List returns every review, optionally filtered by status, newest first
func (r *ReviewRepository) List(ctx context.Context, status string) ([]*models.Review, error) {
	var list []*models.Review
	query := r.db.WithContext(ctx).Model(&models.Review{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&list).Error
	return list, err
}

// UpdateStatus sets a review's moderation status
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected, result.Error
}
