package admin

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
	"github.com/rentalhub/marketplace-backend/pkg/sms"
)

// NotifyTemplates SMS template codes for agent decisions. An empty code disables
// that notification.
type NotifyTemplates struct {
	Approved string
	Rejected string
}

// AgentAdminService agent approval
type AgentAdminService struct {
	db          *gorm.DB
	profileRepo *repository.ProfileRepository
	sender      sms.Sender
	templates   NotifyTemplates
	bus         *events.Bus
	metrics     *metrics.Metrics
}

// NewAgentAdminService creates an AgentAdminService. sender may be nil.
func NewAgentAdminService(db *gorm.DB, sender sms.Sender, templates NotifyTemplates, bus *events.Bus, m *metrics.Metrics) *AgentAdminService {
	return &AgentAdminService{
		db:          db,
		profileRepo: repository.NewProfileRepository(db),
		sender:      sender,
		templates:   templates,
		bus:         bus,
		metrics:     m,
	}
}

// PendingAgents agents awaiting a decision, newest first
func (s *AgentAdminService) PendingAgents(ctx context.Context) ([]*models.Agent, error) {
	agents, err := s.profileRepo.ListPendingAgents(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return agents, nil
}

// Approve marks a pending agent approved and activates its user as an agent,
// both in one transaction.
func (s *AgentAdminService) Approve(ctx context.Context, id string) error {
	var agent *models.Agent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profiles := repository.NewProfileRepository(tx)
		if agent, err = pendingAgent(ctx, profiles, id); err != nil {
			return err
		}

		now := time.Now()
		if _, err := profiles.SetAgentStatus(ctx, id, models.AgentStatusApproved, &now); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		rows, err := repository.NewUserRepository(tx).UpdateFields(ctx, agent.UserID, map[string]interface{}{
			"status": models.UserStatusActive,
			"role":   models.RoleAgent,
		})
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if rows == 0 {
			return errors.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.decided(ctx, agent, models.AgentStatusApproved, s.templates.Approved)
	return nil
}

// Reject marks a pending agent rejected. The user stays pending and cannot log in.
func (s *AgentAdminService) Reject(ctx context.Context, id string) error {
	agent, err := pendingAgent(ctx, s.profileRepo, id)
	if err != nil {
		return err
	}
	if _, err := s.profileRepo.SetAgentStatus(ctx, id, models.AgentStatusRejected, nil); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	s.decided(ctx, agent, models.AgentStatusRejected, s.templates.Rejected)
	return nil
}

// RefreshGauges updates the pending and active agent gauges.
func (s *AgentAdminService) RefreshGauges(ctx context.Context) error {
	pending, err := s.profileRepo.CountAgentsByStatus(ctx, models.AgentStatusPending)
	if err != nil {
		return err
	}
	active, err := repository.NewStatsRepository(s.db).CountActiveAgents(ctx)
	if err != nil {
		return err
	}
	s.metrics.SetPendingAgents(pending)
	s.metrics.SetActiveAgents(active)
	return nil
}

func (s *AgentAdminService) decided(ctx context.Context, agent *models.Agent, status models.AgentStatus, template string) {
	s.bus.StatusChanged(ctx, events.EntityAgent, agent.ID, string(models.AgentStatusPending), string(status))

	if s.sender == nil || template == "" || agent.PhoneNumber == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	params := map[string]string{"name": agent.FirstName, "status": string(status)}
	if err := s.sender.Send(ctx, agent.PhoneNumber, template, params); err != nil {
		logger.Warn("agent decision sms failed",
			zap.String("agent_id", agent.ID),
			zap.String("phone", crypto.MaskPhone(agent.PhoneNumber)),
			zap.Error(err),
		)
	}
}

func pendingAgent(ctx context.Context, profiles *repository.ProfileRepository, id string) (*models.Agent, error) {
	agent, err := profiles.GetAgentByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAgentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if agent.Status != models.AgentStatusPending {
		return nil, errors.ErrAgentNotPending
	}
	return agent, nil
}
