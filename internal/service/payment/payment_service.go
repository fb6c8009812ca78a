// Package payment records client payment claims against bookings.
package payment

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/fsm"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/booking"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// Lifecycle is the payment transition table.
var Lifecycle = fsm.New(map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentStatusPending:   {models.PaymentStatusCompleted, models.PaymentStatusFailed},
	models.PaymentStatusCompleted: {models.PaymentStatusRefunded},
}, models.PaymentStatusFailed, models.PaymentStatusRefunded)

// CreateRequest multipart payment claim
type CreateRequest struct {
	BookingID     string  `form:"booking_id" json:"booking_id" binding:"required"`
	Amount        float64 `form:"amount" json:"amount" binding:"required"`
	PaymentMethod string  `form:"payment_method" json:"payment_method" binding:"required"`
	TransactionID string  `form:"transaction_id" json:"transaction_id"`
}

// UpdateStatusRequest admin status change
type UpdateStatusRequest struct {
	Status models.PaymentStatus `json:"status" binding:"required"`
}

// PaymentService payment service
type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	bookings    *booking.BookingService
	uploads     *upload.UploadService
	bus         *events.Bus
	metrics     *metrics.Metrics
}

// NewPaymentService creates a PaymentService
func NewPaymentService(db *gorm.DB, bookings *booking.BookingService, uploads *upload.UploadService, bus *events.Bus, m *metrics.Metrics) *PaymentService {
	return &PaymentService{
		paymentRepo: repository.NewPaymentRepository(db),
		bookings:    bookings,
		uploads:     uploads,
		bus:         bus,
		metrics:     m,
	}
}

// Create records a pending payment for a booking owned by the calling client.
// The proof image is optional; it is removed again if the insert fails.
func (s *PaymentService) Create(ctx context.Context, userID string, req *CreateRequest, proof *multipart.FileHeader) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("amount must be positive")
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, errors.ErrInvalidParams.WithMessage("payment_method is required")
	}
	if _, err := s.bookings.Owned(ctx, userID, req.BookingID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		BookingID:     req.BookingID,
		Amount:        req.Amount,
		PaymentMethod: method,
		Status:        models.PaymentStatusPending,
	}
	if tx := strings.TrimSpace(req.TransactionID); tx != "" {
		payment.TransactionID = &tx
	}
	if proof != nil {
		path, err := s.uploads.Save(ctx, upload.CategoryPayments, proof)
		if err != nil {
			return nil, err
		}
		payment.PaymentProofPath = &path
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if payment.PaymentProofPath != nil {
			s.uploads.DeleteAll(ctx, []string{*payment.PaymentProofPath})
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.metrics.RecordPayment(method, string(payment.Status))
	return payment, nil
}

// ListByBooking returns the payments of a booking the caller may see.
func (s *PaymentService) ListByBooking(ctx context.Context, caller booking.Caller, bookingID string) ([]*models.Payment, error) {
	if _, err := s.bookings.Get(ctx, caller, bookingID); err != nil {
		return nil, err
	}
	items, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if items == nil {
		items = []*models.Payment{}
	}
	return items, nil
}

// UpdateStatus moves a payment along its lifecycle.
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	if !Lifecycle.Valid(status) {
		return nil, errors.ErrInvalidStatus
	}
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if err := Lifecycle.Transition(payment.Status, status); err != nil {
		return nil, errors.ErrPaymentTransition.WithMessage(
			fmt.Sprintf("Invalid status transition from %s to %s", payment.Status, status))
	}
	rows, err := s.paymentRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return nil, errors.ErrPaymentNotFound
	}

	from := payment.Status
	payment.Status = status
	s.metrics.RecordPayment(payment.PaymentMethod, string(status))
	s.bus.StatusChanged(ctx, events.EntityPayment, id, string(from), string(status))
	return payment, nil
}
