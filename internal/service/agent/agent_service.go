// Package agent serves the agent dashboard.
package agent

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/qrcode"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/commission"
)

// ReferralCode response of the referral code endpoint
type ReferralCode struct {
	ReferralCode string `json:"referral_code"`
}

// AgentService agent dashboard service
type AgentService struct {
	profileRepo *repository.ProfileRepository
	bookingRepo *repository.BookingRepository
	commissions *commission.CommissionService
	qr          *qrcode.Generator
}

// NewAgentService creates an AgentService
func NewAgentService(db *gorm.DB, commissions *commission.CommissionService, qr *qrcode.Generator) *AgentService {
	if qr == nil {
		qr = qrcode.NewGenerator()
	}
	return &AgentService{
		profileRepo: repository.NewProfileRepository(db),
		bookingRepo: repository.NewBookingRepository(db),
		commissions: commissions,
		qr:          qr,
	}
}

// Profile resolves the agent profile of a user
func (s *AgentService) Profile(ctx context.Context, userID string) (*models.Agent, error) {
	agent, err := s.profileRepo.GetAgentByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAgentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return agent, nil
}

// Commissions lists the caller's commissions
func (s *AgentService) Commissions(ctx context.Context, userID string) (*commission.CommissionList, error) {
	agent, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.commissions.ListByAgent(ctx, agent.ID), nil
}

// Stats sums the caller's commissions
func (s *AgentService) Stats(ctx context.Context, userID string) (*commission.AgentStats, error) {
	agent, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.commissions.Stats(ctx, agent.ID), nil
}

// ReferralCode returns the caller's referral code
func (s *AgentService) ReferralCode(ctx context.Context, userID string) (*ReferralCode, error) {
	agent, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ReferralCode{ReferralCode: agent.ReferralCode}, nil
}

// ReferralQRCode renders the caller's referral code as a PNG
func (s *AgentService) ReferralQRCode(ctx context.Context, userID string) ([]byte, error) {
	agent, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.PNG(agent.ReferralCode)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return png, nil
}

// Clients lists clients with bookings attributed to the caller, newest first
func (s *AgentService) Clients(ctx context.Context, userID string) ([]repository.AgentClient, error) {
	agent, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	clients, err := s.bookingRepo.ListAgentClients(ctx, agent.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if clients == nil {
		clients = []repository.AgentClient{}
	}
	return clients, nil
}
