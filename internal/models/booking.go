package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingType what is being booked.
type BookingType string

const (
	BookingTypeAccommodation   BookingType = "accommodation"
	BookingTypeVehicleRent     BookingType = "vehicle_rent"
	BookingTypeVehiclePurchase BookingType = "vehicle_purchase"
)

// Valid reports whether t is a known booking type.
func (t BookingType) Valid() bool {
	return t == BookingTypeAccommodation || t == BookingTypeVehicleRent || t == BookingTypeVehiclePurchase
}

// TargetsVehicle reports whether the booking references a vehicle.
func (t BookingType) TargetsVehicle() bool {
	return t == BookingTypeVehicleRent || t == BookingTypeVehiclePurchase
}

// BookingStatus lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a client's request for an accommodation or vehicle.
type Booking struct {
	ID               string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	BookingType      BookingType   `gorm:"type:varchar(20);not null;index" json:"booking_type"`
	BookingReference string        `gorm:"type:varchar(16);uniqueIndex;not null" json:"booking_reference"`
	ClientID         string        `gorm:"type:varchar(36);not null;index" json:"client_id"`
	AgentID          *string       `gorm:"type:varchar(36);index" json:"agent_id"`
	AccommodationID  *string       `gorm:"type:varchar(36);index" json:"accommodation_id"`
	VehicleID        *string       `gorm:"type:varchar(36);index" json:"vehicle_id"`
	TotalAmount      float64       `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	BookingStatus    BookingStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"booking_status"`
	CreatedAt        time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate assigns a UUID.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// CommissionStatus lifecycle state of a commission.
type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusApproved  CommissionStatus = "approved"
	CommissionStatusPaid      CommissionStatus = "paid"
	CommissionStatusCancelled CommissionStatus = "cancelled"
)

// Commission is money owed to an agent for a booking.
type Commission struct {
	ID        string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	AgentID   string           `gorm:"type:varchar(36);not null;index" json:"agent_id"`
	BookingID string           `gorm:"type:varchar(36);not null;index" json:"booking_id"`
	Amount    float64          `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status    CommissionStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	CreatedAt time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	PaidAt    *time.Time       `json:"paid_at"`
}

// TableName table name
func (Commission) TableName() string {
	return "commissions"
}

// BeforeCreate assigns a UUID.
func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// PaymentStatus lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is a client's payment claim against a booking.
type Payment struct {
	ID               string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	BookingID        string        `gorm:"type:varchar(36);not null;index" json:"booking_id"`
	Amount           float64       `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaymentMethod    string        `gorm:"type:varchar(50);not null" json:"payment_method"`
	TransactionID    *string       `gorm:"type:varchar(100)" json:"transaction_id"`
	PaymentProofPath *string       `gorm:"type:varchar(255)" json:"payment_proof_path"`
	Status           PaymentStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	CreatedAt        time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns a UUID.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
