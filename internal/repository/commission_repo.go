package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// CommissionTotals sums of an agent's commissions per status
type CommissionTotals struct {
	Paid     float64
	Approved float64
	Pending  float64
}

// CommissionRepository commission store
type CommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a CommissionRepository
func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create inserts a commission
func (r *CommissionRepository) Create(ctx context.Context, commission *models.Commission) error {
	return r.db.WithContext(ctx).Create(commission).Error
}

// GetByID returns a commission by id
func (r *CommissionRepository) GetByID(ctx context.Context, id string) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&commission).Error; err != nil {
		return nil, err
	}
	return &commission, nil
}

// ListByAgent returns an agent's commissions, newest first
func (r *CommissionRepository) ListByAgent(ctx context.Context, agentID string) ([]*models.Commission, error) {
	var list []*models.Commission
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// List returns every commission, optionally filtered by status, newest first
func (r *CommissionRepository) List(ctx context.Context, status string) ([]*models.Commission, error) {
	var list []*models.Commission
	query := r.db.WithContext(ctx).Model(&models.Commission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&list).Error
	return list, err
}

// TotalsByAgent sums an agent's commissions per status. No rows yields zeros.
func (r *CommissionRepository) TotalsByAgent(ctx context.Context, agentID string) (*CommissionTotals, error) {
	var totals CommissionTotals
	err := r.db.WithContext(ctx).Model(&models.Commission{}).
		Select(`COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS approved,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS pending`,
			models.CommissionStatusPaid, models.CommissionStatusApproved, models.CommissionStatusPending).
		Where("agent_id = ?", agentID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// UpdateStatus sets the status and paid_at (nil clears it)
func (r *CommissionRepository) UpdateStatus(ctx context.Context, id string, status models.CommissionStatus, paidAt *time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "paid_at": paidAt})
	return result.RowsAffected, result.Error
}
