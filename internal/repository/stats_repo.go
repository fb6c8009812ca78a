package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// StatsRepository aggregate counts for dashboards
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a StatsRepository
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Count counts every row of a model's table
func (r *StatsRepository) Count(ctx context.Context, model interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Count(&count).Error
	return count, err
}

// CountActiveAgents counts agent users whose account is active
func (r *StatsRepository) CountActiveAgents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleAgent, models.UserStatusActive).
		Count(&count).Error
	return count, err
}
