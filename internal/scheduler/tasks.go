package scheduler

import (
	"context"
	"time"

	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
	bookingService "github.com/rentalhub/marketplace-backend/internal/service/booking"
	statsService "github.com/rentalhub/marketplace-backend/internal/service/stats"
)

// TaskHandler holds the periodic jobs of the API process.
type TaskHandler struct {
	bookingService *bookingService.BookingService
	agentService   *adminService.AgentAdminService
	statsService   *statsService.StatsService
}

// NewTaskHandler creates a TaskHandler
func NewTaskHandler(
	bookingSvc *bookingService.BookingService,
	agentSvc *adminService.AgentAdminService,
	statsSvc *statsService.StatsService,
) *TaskHandler {
	return &TaskHandler{
		bookingService: bookingSvc,
		agentService:   agentSvc,
		statsService:   statsSvc,
	}
}

// RefreshBookingGauges updates the pending bookings gauge.
func (h *TaskHandler) RefreshBookingGauges(ctx context.Context) error {
	_, err := h.bookingService.CountPending(ctx)
	return err
}

// RefreshAgentGauges updates the pending and active agent gauges.
func (h *TaskHandler) RefreshAgentGauges(ctx context.Context) error {
	return h.agentService.RefreshGauges(ctx)
}

// WarmPublicStats recomputes the cached public statistics.
func (h *TaskHandler) WarmPublicStats(ctx context.Context) error {
	_, err := h.statsService.WarmPublic(ctx)
	return err
}

// Register adds every task to s with the given interval.
func (h *TaskHandler) Register(s *Scheduler, interval time.Duration) {
	s.AddTask("refresh_booking_gauges", interval, h.RefreshBookingGauges)
	s.AddTask("refresh_agent_gauges", interval, h.RefreshAgentGauges)
	s.AddTask("warm_public_stats", interval, h.WarmPublicStats)
}
