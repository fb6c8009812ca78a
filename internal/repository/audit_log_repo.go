package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/database"
	"github.com/rentalhub/marketplace-backend/internal/models"
)

// AuditLogRepository admin audit log store
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates an AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create inserts an audit entry
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent returns the latest entries, at most limit (default 50, max 500)
func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	var list []*models.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(database.OrderByCreatedDesc, database.Limit(limit, 50, 500)).
		Find(&list).Error
	return list, err
}
