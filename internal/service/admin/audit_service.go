package admin

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
)

// AuditService reads the admin audit trail
type AuditService struct {
	auditRepo *repository.AuditLogRepository
}

// NewAuditService creates an AuditService
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{auditRepo: repository.NewAuditLogRepository(db)}
}

// Recent returns the latest entries newest first (default 50, max 500).
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	items, err := s.auditRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}
