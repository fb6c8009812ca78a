package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// BookingFilter admin list filters
type BookingFilter struct {
	Status      string
	BookingType string
}

// AgentClient is a client who booked through an agent.
type AgentClient struct {
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	ReferredAt time.Time `json:"referred_at"`
}

// BookingRepository booking store
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a BookingRepository
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID returns a booking by id
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ExistsReference reports whether a booking reference is taken
func (r *BookingRepository) ExistsReference(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("booking_reference = ?", ref).Count(&count).Error
	return count > 0, err
}

// ListByClient returns a client's bookings, newest first
func (r *BookingRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListAll returns every booking matching the filter, newest first
func (r *BookingRepository) ListAll(ctx context.Context, f BookingFilter) ([]*models.Booking, error) {
	var bookings []*models.Booking
	query := equals(r.db.WithContext(ctx).Model(&models.Booking{}),
		[]string{"booking_status", "booking_type"},
		[]string{f.Status, f.BookingType})
	err := query.Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

// UpdateStatus sets booking_status
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Update("booking_status", status)
	return result.RowsAffected, result.Error
}

// CountByStatus counts bookings in a status
func (r *BookingRepository) CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("booking_status = ?", status).Count(&count).Error
	return count, err
}

// ListAgentClients returns the clients with bookings linked to the agent, one row per
// distinct (name, email, booking time), newest first.
func (r *BookingRepository) ListAgentClients(ctx context.Context, agentID string) ([]AgentClient, error) {
	var rows []AgentClient
	err := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("DISTINCT c.first_name, c.last_name, u.email, b.created_at AS referred_at").
		Joins("JOIN clients c ON c.id = b.client_id").
		Joins("JOIN users u ON u.id = c.user_id").
		Where("b.agent_id = ?", agentID).
		Order("b.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
