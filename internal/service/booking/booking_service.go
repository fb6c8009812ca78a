// Package booking implements booking creation and the booking lifecycle.
package booking

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/common/qrcode"
	"github.com/rentalhub/marketplace-backend/internal/common/tracing"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
)

// Options lifecycle rules
type Options struct {
	// StrictTransitions rejects admin status changes the lifecycle table does not allow.
	StrictTransitions bool
	// ReferenceRetries bounds attempts to allocate a unique booking reference.
	ReferenceRetries int
}

// DefaultOptions strict transitions, five reference attempts
func DefaultOptions() Options {
	return Options{StrictTransitions: true, ReferenceRetries: 5}
}

// Caller the authenticated user acting on a booking
type Caller struct {
	UserID string
	Role   models.Role
}

// CreateBookingRequest booking body. The status is always pending and a client
// caller's client_id is taken from its own profile.
type CreateBookingRequest struct {
	BookingType     models.BookingType `json:"booking_type" binding:"required"`
	AccommodationID *string            `json:"accommodation_id"`
	VehicleID       *string            `json:"vehicle_id"`
	ClientID        *string            `json:"client_id"`
	AgentID         *string            `json:"agent_id"`
	TotalAmount     float64            `json:"total_amount" binding:"gte=0"`
}

// UpdateStatusRequest admin status change
type UpdateStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

// BookingService booking service
type BookingService struct {
	db            *gorm.DB
	bookingRepo   *repository.BookingRepository
	profileRepo   *repository.ProfileRepository
	accommodation *repository.AccommodationRepository
	vehicle       *repository.VehicleRepository
	qr            *qrcode.Generator
	bus           *events.Bus
	metrics       *metrics.Metrics
	opts          Options
}

// NewBookingService creates a BookingService
func NewBookingService(db *gorm.DB, qr *qrcode.Generator, bus *events.Bus, m *metrics.Metrics, opts Options) *BookingService {
	if opts.ReferenceRetries <= 0 {
		opts.ReferenceRetries = DefaultOptions().ReferenceRetries
	}
	if qr == nil {
		qr = qrcode.NewGenerator()
	}
	return &BookingService{
		db:            db,
		bookingRepo:   repository.NewBookingRepository(db),
		profileRepo:   repository.NewProfileRepository(db),
		accommodation: repository.NewAccommodationRepository(db),
		vehicle:       repository.NewVehicleRepository(db),
		qr:            qr,
		bus:           bus,
		metrics:       m,
		opts:          opts,
	}
}

// Create stores a pending booking with a fresh reference.
func (s *BookingService) Create(ctx context.Context, caller Caller, req *CreateBookingRequest) (*models.Booking, error) {
	ctx, span := tracing.Start(ctx, "booking.Create", tracing.WithUserID(caller.UserID),
		attribute.String("booking.type", string(req.BookingType)))
	defer span.End()

	booking, err := s.create(ctx, caller, req)
	if err != nil {
		tracing.SetError(ctx, err)
		return nil, err
	}

	s.metrics.RecordBookingCreated(string(booking.BookingType))
	s.bus.StatusChanged(ctx, events.EntityBooking, booking.ID, "", string(booking.BookingStatus))
	return booking, nil
}

func (s *BookingService) create(ctx context.Context, caller Caller, req *CreateBookingRequest) (*models.Booking, error) {
	if !req.BookingType.Valid() {
		return nil, errors.ErrInvalidParams.WithMessage("Invalid booking type")
	}
	if req.TotalAmount < 0 {
		return nil, errors.ErrInvalidParams.WithMessage("total_amount must not be negative")
	}

	clientID, agentID, err := s.resolveParties(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, req); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingType:   req.BookingType,
		ClientID:      clientID,
		AgentID:       agentID,
		TotalAmount:   req.TotalAmount,
		BookingStatus: models.BookingStatusPending,
	}
	if req.BookingType == models.BookingTypeAccommodation {
		booking.AccommodationID = req.AccommodationID
	} else {
		booking.VehicleID = req.VehicleID
	}

	if err := s.insertWithReference(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// resolveParties returns the client and optional agent a booking belongs to.
func (s *BookingService) resolveParties(ctx context.Context, caller Caller, req *CreateBookingRequest) (string, *string, error) {
	switch caller.Role {
	case models.RoleClient:
		client, err := s.profileRepo.GetClientByUserID(ctx, caller.UserID)
		if err != nil {
			return "", nil, notFound(err, errors.ErrClientProfileNotFound)
		}
		if id := utils.SafeString(req.AgentID); id != "" {
			agent, err := s.profileRepo.GetAgentByID(ctx, id)
			if err != nil {
				return "", nil, notFound(err, errors.ErrAgentNotFound)
			}
			if agent.Status != models.AgentStatusApproved {
				return "", nil, errors.ErrAgentNotApproved
			}
			return client.ID, &agent.ID, nil
		}
		return client.ID, client.ReferredByAgentID, nil

	case models.RoleAgent:
		agent, err := s.profileRepo.GetAgentByUserID(ctx, caller.UserID)
		if err != nil {
			return "", nil, notFound(err, errors.ErrAgentNotFound)
		}
		id := utils.SafeString(req.ClientID)
		if id == "" {
			return "", nil, errors.ErrInvalidParams.WithMessage("client_id is required")
		}
		client, err := s.profileRepo.GetClientByID(ctx, id)
		if err != nil {
			return "", nil, notFound(err, errors.ErrClientProfileNotFound)
		}
		return client.ID, &agent.ID, nil
	}
	return "", nil, errors.ErrPermissionDenied
}

// checkTarget requires exactly the target column matching the booking type and
// that the target exists.
func (s *BookingService) checkTarget(ctx context.Context, req *CreateBookingRequest) error {
	accommodationID := utils.SafeString(req.AccommodationID)
	vehicleID := utils.SafeString(req.VehicleID)

	var (
		exists bool
		err    error
	)
	if req.BookingType.TargetsVehicle() {
		if vehicleID == "" || accommodationID != "" {
			return errors.ErrBookingTargetMismatch
		}
		if exists, err = s.vehicle.Exists(ctx, vehicleID); err == nil && !exists {
			return errors.ErrVehicleNotFound
		}
	} else {
		if accommodationID == "" || vehicleID != "" {
			return errors.ErrBookingTargetMismatch
		}
		if exists, err = s.accommodation.Exists(ctx, accommodationID); err == nil && !exists {
			return errors.ErrAccommodationNotFound
		}
	}
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// insertWithReference retries on reference collisions, relying on the unique index.
func (s *BookingService) insertWithReference(ctx context.Context, booking *models.Booking) error {
	for attempt := 0; attempt < s.opts.ReferenceRetries; attempt++ {
		ref := utils.GenerateBookingReference()
		taken, err := s.bookingRepo.ExistsReference(ctx, ref)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if taken {
			continue
		}

		booking.ID = ""
		booking.BookingReference = ref
		err = s.bookingRepo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		// a concurrent insert may have claimed the reference after the check
		if taken, checkErr := s.bookingRepo.ExistsReference(ctx, ref); checkErr != nil || !taken {
			return errors.ErrDatabaseError.WithError(err)
		}
	}
	return errors.ErrBookingReferenceExhausted
}

// UpdateStatus changes a booking's status as an admin.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	ctx, span := tracing.Start(ctx, "booking.UpdateStatus", tracing.WithBookingID(id),
		attribute.String("booking.status", string(status)))
	defer span.End()

	if !Lifecycle.Valid(status) {
		return nil, errors.ErrInvalidStatus
	}

	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.opts.StrictTransitions {
		if err := checkTransition(booking.BookingStatus, status); err != nil {
			tracing.SetError(ctx, err)
			return nil, err
		}
	}
	if err := s.setStatus(ctx, booking, status); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel lets the owning client cancel a booking.
func (s *BookingService) Cancel(ctx context.Context, userID, id string) (*models.Booking, error) {
	booking, err := s.Owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(booking.BookingStatus, models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if err := s.setStatus(ctx, booking, models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) setStatus(ctx context.Context, booking *models.Booking, status models.BookingStatus) error {
	rows, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, status)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrBookingNotFound
	}

	from := booking.BookingStatus
	booking.BookingStatus = status
	s.metrics.RecordBookingTransition(string(from), string(status))
	s.bus.StatusChanged(ctx, events.EntityBooking, booking.ID, string(from), string(status))
	return nil
}

func checkTransition(from, to models.BookingStatus) error {
	if err := Lifecycle.Transition(from, to); err != nil {
		return errors.ErrBookingTransition.WithMessage(fmt.Sprintf("Invalid status transition from %s to %s", from, to))
	}
	return nil
}

// ListForClient returns the caller's bookings, newest first.
func (s *BookingService) ListForClient(ctx context.Context, userID string) ([]*models.Booking, error) {
	client, err := s.profileRepo.GetClientByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, errors.ErrClientProfileNotFound)
	}
	bookings, err := s.bookingRepo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, nil
}

// ListAll returns every booking matching the filter, newest first.
func (s *BookingService) ListAll(ctx context.Context, filter repository.BookingFilter) ([]*models.Booking, error) {
	if filter.Status != "" && !Lifecycle.Valid(models.BookingStatus(filter.Status)) {
		return nil, errors.ErrInvalidStatus
	}
	bookings, err := s.bookingRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, nil
}

// Get returns a booking visible to the caller: the owning client, the linked
// agent or any admin.
func (s *BookingService) Get(ctx context.Context, caller Caller, id string) (*models.Booking, error) {
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleAdmin:
		return booking, nil
	case models.RoleClient:
		client, err := s.profileRepo.GetClientByUserID(ctx, caller.UserID)
		if err == nil && client.ID == booking.ClientID {
			return booking, nil
		}
	case models.RoleAgent:
		agent, err := s.profileRepo.GetAgentByUserID(ctx, caller.UserID)
		if err == nil && booking.AgentID != nil && *booking.AgentID == agent.ID {
			return booking, nil
		}
	}
	return nil, errors.ErrBookingNotOwned
}

// Owned returns a booking that belongs to the calling client.
func (s *BookingService) Owned(ctx context.Context, userID, id string) (*models.Booking, error) {
	client, err := s.profileRepo.GetClientByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, errors.ErrClientProfileNotFound)
	}
	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != client.ID {
		return nil, errors.ErrBookingNotOwned
	}
	return booking, nil
}

// QRCode renders the booking reference of an owned booking as a PNG.
func (s *BookingService) QRCode(ctx context.Context, userID, id string) ([]byte, error) {
	booking, err := s.Owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.PNG(booking.BookingReference)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return png, nil
}

// CountPending refreshes the pending bookings gauge.
func (s *BookingService) CountPending(ctx context.Context) (int64, error) {
	n, err := s.bookingRepo.CountByStatus(ctx, models.BookingStatusPending)
	if err != nil {
		return 0, err
	}
	s.metrics.SetPendingBookings(n)
	return n, nil
}

func (s *BookingService) get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, errors.ErrBookingNotFound)
	}
	return booking, nil
}

func notFound(err error, appErr *errors.AppError) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return appErr
	}
	return errors.ErrDatabaseError.WithError(err)
}
