// Package commission manages agent commissions.
package commission

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/fsm"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
)

// Lifecycle is the commission transition table.
var Lifecycle = fsm.New(map[models.CommissionStatus][]models.CommissionStatus{
	models.CommissionStatusPending:  {models.CommissionStatusApproved, models.CommissionStatusCancelled},
	models.CommissionStatusApproved: {models.CommissionStatusPaid, models.CommissionStatusCancelled},
}, models.CommissionStatusPaid, models.CommissionStatusCancelled)

// CreateRequest admin commission body
type CreateRequest struct {
	AgentID   string  `json:"agent_id" binding:"required"`
	BookingID string  `json:"booking_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

// UpdateStatusRequest admin status change
type UpdateStatusRequest struct {
	Status models.CommissionStatus `json:"status" binding:"required"`
}

// CommissionList is an agent's commissions. Degraded is set when the store could
// not be read and Items is empty as a result.
type CommissionList struct {
	Items    []*models.Commission `json:"items"`
	Degraded bool                 `json:"degraded"`
}

// AgentStats commission sums per status
type AgentStats struct {
	Paid     float64 `json:"paid"`
	Approved float64 `json:"approved"`
	Pending  float64 `json:"pending"`
	Degraded bool    `json:"degraded"`
}

// CommissionService commission service
type CommissionService struct {
	commissionRepo *repository.CommissionRepository
	profileRepo    *repository.ProfileRepository
	bookingRepo    *repository.BookingRepository
	bus            *events.Bus
	metrics        *metrics.Metrics
}

// NewCommissionService creates a CommissionService
func NewCommissionService(db *gorm.DB, bus *events.Bus, m *metrics.Metrics) *CommissionService {
	return &CommissionService{
		commissionRepo: repository.NewCommissionRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		bookingRepo:    repository.NewBookingRepository(db),
		bus:            bus,
		metrics:        m,
	}
}

// Create records a pending commission for an agent's booking.
func (s *CommissionService) Create(ctx context.Context, req *CreateRequest) (*models.Commission, error) {
	if req.Amount <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("amount must be positive")
	}
	if _, err := s.profileRepo.GetAgentByID(ctx, req.AgentID); err != nil {
		return nil, notFound(err, errors.ErrAgentNotFound)
	}
	if _, err := s.bookingRepo.GetByID(ctx, req.BookingID); err != nil {
		return nil, notFound(err, errors.ErrBookingNotFound)
	}

	commission := &models.Commission{
		AgentID:   req.AgentID,
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Status:    models.CommissionStatusPending,
	}
	if err := s.commissionRepo.Create(ctx, commission); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.metrics.RecordCommissionStatus(string(commission.Status))
	return commission, nil
}

// UpdateStatus moves a commission along its lifecycle. paid_at is set only when
// the new status is paid.
func (s *CommissionService) UpdateStatus(ctx context.Context, id string, status models.CommissionStatus) (*models.Commission, error) {
	if !Lifecycle.Valid(status) {
		return nil, errors.ErrInvalidStatus
	}
	commission, err := s.commissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errors.ErrCommissionNotFound)
	}
	if err := Lifecycle.Transition(commission.Status, status); err != nil {
		return nil, errors.ErrCommissionTransition.WithMessage(
			fmt.Sprintf("Invalid status transition from %s to %s", commission.Status, status))
	}

	var paidAt *time.Time
	if status == models.CommissionStatusPaid {
		now := time.Now()
		paidAt = &now
	}
	rows, err := s.commissionRepo.UpdateStatus(ctx, id, status, paidAt)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return nil, errors.ErrCommissionNotFound
	}

	from := commission.Status
	commission.Status = status
	commission.PaidAt = paidAt
	s.metrics.RecordCommissionStatus(string(status))
	s.bus.StatusChanged(ctx, events.EntityCommission, id, string(from), string(status))
	return commission, nil
}

// List returns all commissions, optionally filtered by status.
func (s *CommissionService) List(ctx context.Context, status string) ([]*models.Commission, error) {
	if status != "" && !Lifecycle.Valid(models.CommissionStatus(status)) {
		return nil, errors.ErrInvalidStatus
	}
	items, err := s.commissionRepo.List(ctx, status)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}

// ListByAgent returns the agent's commissions newest first. A store failure
// yields an empty degraded list instead of an error.
func (s *CommissionService) ListByAgent(ctx context.Context, agentID string) *CommissionList {
	items, err := s.commissionRepo.ListByAgent(ctx, agentID)
	if err != nil {
		logger.Error("list commissions failed", zap.String("agent_id", agentID), zap.Error(err))
		s.metrics.RecordDegradedRead("commissions.list")
		return &CommissionList{Items: []*models.Commission{}, Degraded: true}
	}
	if items == nil {
		items = []*models.Commission{}
	}
	return &CommissionList{Items: items}
}

// Stats sums the agent's commissions by status. Zero rows give zeros; a store
// failure gives zeros flagged as degraded.
func (s *CommissionService) Stats(ctx context.Context, agentID string) *AgentStats {
	totals, err := s.commissionRepo.TotalsByAgent(ctx, agentID)
	if err != nil {
		logger.Error("commission totals failed", zap.String("agent_id", agentID), zap.Error(err))
		s.metrics.RecordDegradedRead("commissions.stats")
		return &AgentStats{Degraded: true}
	}
	return &AgentStats{Paid: totals.Paid, Approved: totals.Approved, Pending: totals.Pending}
}

func notFound(err error, appErr *errors.AppError) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return appErr
	}
	return errors.ErrDatabaseError.WithError(err)
}
