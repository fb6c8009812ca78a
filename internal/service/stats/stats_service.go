// Package stats computes dashboard counters.
package stats

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
)

const cacheName = "public_stats"

// PublicStats landing page counters. Agents counts active agent users.
type PublicStats struct {
	Accommodations int64 `json:"accommodations"`
	Vehicles       int64 `json:"vehicles"`
	Bookings       int64 `json:"bookings"`
	Agents         int64 `json:"agents"`
}

// AdminStats back-office counters
type AdminStats struct {
	Users           int64 `json:"users"`
	Accommodations  int64 `json:"accommodations"`
	Vehicles        int64 `json:"vehicles"`
	Bookings        int64 `json:"bookings"`
	PendingAgents   int64 `json:"pending_agents"`
	PendingBookings int64 `json:"pending_bookings"`
}

// StatsService stats service
type StatsService struct {
	statsRepo   *repository.StatsRepository
	bookingRepo *repository.BookingRepository
	profileRepo *repository.ProfileRepository
	store       *cache.Store
	ttl         time.Duration
	metrics     *metrics.Metrics
}

// NewStatsService creates a StatsService. store may be nil, which disables caching.
func NewStatsService(db *gorm.DB, store *cache.Store, ttl time.Duration, m *metrics.Metrics) *StatsService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsService{
		statsRepo:   repository.NewStatsRepository(db),
		bookingRepo: repository.NewBookingRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		store:       store,
		ttl:         ttl,
		metrics:     m,
	}
}

// Public returns cached public counters. Cache failures fall back to the database.
func (s *StatsService) Public(ctx context.Context) (*PublicStats, error) {
	if s.store != nil {
		var cached PublicStats
		err := s.store.GetJSON(ctx, cache.KeyPublicStats, &cached)
		switch {
		case err == nil:
			s.metrics.RecordCacheHit(cacheName)
			return &cached, nil
		case stderrors.Is(err, cache.ErrMiss):
			s.metrics.RecordCacheMiss(cacheName)
		default:
			s.metrics.RecordCacheMiss(cacheName)
			logger.Warn("public stats cache read failed", zap.Error(err))
		}
	}
	return s.WarmPublic(ctx)
}

// WarmPublic recomputes the public counters and refreshes the cache.
func (s *StatsService) WarmPublic(ctx context.Context) (*PublicStats, error) {
	out := &PublicStats{}
	var err error
	if out.Accommodations, err = s.statsRepo.Count(ctx, &models.Accommodation{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.Vehicles, err = s.statsRepo.Count(ctx, &models.Vehicle{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.Bookings, err = s.statsRepo.Count(ctx, &models.Booking{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.Agents, err = s.statsRepo.CountActiveAgents(ctx); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if s.store != nil {
		if err := s.store.SetJSON(ctx, cache.KeyPublicStats, out, s.ttl); err != nil {
			logger.Warn("public stats cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// Admin returns uncached back-office counters.
func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	out := &AdminStats{}
	var err error
	if out.Users, err = s.statsRepo.Count(ctx, &models.User{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.Accommodations, err = s.statsRepo.Count(ctx, &models.Accommodation{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.Vehicles, err = s.statsRepo.Count(ctx, &models.Vehicle{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.Bookings, err = s.statsRepo.Count(ctx, &models.Booking{}); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.PendingAgents, err = s.profileRepo.CountAgentsByStatus(ctx, models.AgentStatusPending); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if out.PendingBookings, err = s.bookingRepo.CountByStatus(ctx, models.BookingStatusPending); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return out, nil
}
