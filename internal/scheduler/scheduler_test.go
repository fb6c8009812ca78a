package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/models"
	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
	bookingService "github.com/rentalhub/marketplace-backend/internal/service/booking"
	statsService "github.com/rentalhub/marketplace-backend/internal/service/stats"
	"github.com/rentalhub/marketplace-backend/pkg/sms"
	"github.com/rentalhub/marketplace-backend/tests/helpers"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs, failures int32
	s.AddTask("count", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	s.AddTask("fail", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&failures, 1)
		return errors.New("boom")
	})

	s.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == 1 && atomic.LoadInt32(&failures) == 1
	}, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_Ticks(t *testing.T) {
	s := NewScheduler(nil)
	var runs int32
	s.AddTask("tick", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestTaskHandler(t *testing.T) {
	db := helpers.NewTestDB(t)
	_, client := helpers.SeedClient(t, db)
	helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)
	helpers.SeedBooking(t, db, client.ID, models.BookingStatusPending)
	helpers.SeedApprovedAgent(t, db)
	helpers.SeedAgent(t, db, models.UserStatusPending, models.AgentStatusPending)

	mr := miniredis.RunT(t)
	store := cache.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	m := metrics.New("test_scheduler")

	h := NewTaskHandler(
		bookingService.NewBookingService(db, nil, nil, m, bookingService.DefaultOptions()),
		adminService.NewAgentAdminService(db, sms.NewMockSender(), adminService.NotifyTemplates{}, nil, m),
		statsService.NewStatsService(db, store, time.Minute, m),
	)
	ctx := context.Background()

	require.NoError(t, h.RefreshBookingGauges(ctx))
	require.NoError(t, h.RefreshAgentGauges(ctx))
	n, err := testutil.GatherAndCount(m.Registry(),
		"test_scheduler_pending_bookings", "test_scheduler_pending_agents", "test_scheduler_active_agents")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, h.WarmPublicStats(ctx))
	assert.True(t, mr.Exists(cache.KeyPublicStats))

	s := NewScheduler(nil)
	h.Register(s, time.Hour)
	assert.Len(t, s.tasks, 3)
}
