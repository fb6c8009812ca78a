//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/qrcode"
	"github.com/rentalhub/marketplace-backend/internal/models"
	bookingService "github.com/rentalhub/marketplace-backend/internal/service/booking"
	commissionService "github.com/rentalhub/marketplace-backend/internal/service/commission"
	statsService "github.com/rentalhub/marketplace-backend/internal/service/stats"
	"github.com/rentalhub/marketplace-backend/tests/helpers"
)

type suite struct {
	db    *gorm.DB
	store *cache.Store
}

func setup(t *testing.T) *suite {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tc := NewContainers(ctx)
	require.NoError(t, tc.StartAll(), "failed to start containers")
	t.Cleanup(func() { _ = tc.Cleanup() })

	db, err := tc.DB()
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	rdb, err := tc.RedisClient()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return &suite{db: db, store: cache.NewStore(rdb)}
}

func TestMarketplaceFlow_Postgres(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	bookings := bookingService.NewBookingService(s.db, qrcode.NewGenerator(), nil, nil,
		bookingService.Options{StrictTransitions: true, ReferenceRetries: 5})
	commissions := commissionService.NewCommissionService(s.db, nil, nil)

	_, agent := helpers.SeedApprovedAgent(t, s.db)
	clientUser, _ := helpers.SeedClient(t, s.db)
	stay := helpers.SeedAccommodation(t, s.db)

	t.Run("booking lifecycle", func(t *testing.T) {
		booking, err := bookings.Create(ctx, bookingService.Caller{UserID: clientUser.ID, Role: models.RoleClient},
			&bookingService.CreateBookingRequest{
				BookingType:     models.BookingTypeAccommodation,
				AccommodationID: &stay.ID,
				AgentID:         &agent.ID,
				TotalAmount:     300,
			})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.BookingStatus)

		_, err = bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusCompleted)
		assert.ErrorIs(t, err, errors.ErrBookingTransition)

		for _, next := range []models.BookingStatus{models.BookingStatusApproved, models.BookingStatusConfirmed, models.BookingStatusCompleted} {
			_, err = bookings.UpdateStatus(ctx, booking.ID, next)
			require.NoError(t, err)
		}

		commission, err := commissions.Create(ctx, &commissionService.CreateRequest{
			AgentID:   agent.ID,
			BookingID: booking.ID,
			Amount:    30,
		})
		require.NoError(t, err)

		_, err = commissions.UpdateStatus(ctx, commission.ID, models.CommissionStatusApproved)
		require.NoError(t, err)
		paid, err := commissions.UpdateStatus(ctx, commission.ID, models.CommissionStatusPaid)
		require.NoError(t, err)
		assert.NotNil(t, paid.PaidAt)

		stats := commissions.Stats(ctx, agent.ID)
		assert.False(t, stats.Degraded)
		assert.InDelta(t, 30, stats.Paid, 0.001)
		assert.Zero(t, stats.Pending)
	})

	t.Run("public stats cache", func(t *testing.T) {
		svc := statsService.NewStatsService(s.db, s.store, time.Minute, nil)

		first, err := svc.Public(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.Accommodations)
		assert.Equal(t, int64(1), first.Agents)

		helpers.SeedAccommodation(t, s.db)

		cached, err := svc.Public(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.Accommodations, cached.Accommodations)

		warmed, err := svc.WarmPublic(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), warmed.Accommodations)
	})
}
