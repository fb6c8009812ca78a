package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// PaymentRepository payment store
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a PaymentRepository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID returns a payment by id
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByBooking returns a booking's payments, newest first
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]*models.Payment, error) {
	var list []*models.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// UpdateStatus sets a payment's status
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected, result.Error
}
