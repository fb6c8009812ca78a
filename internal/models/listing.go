package models

import (
	"time"

	"gorm.io/gorm"
)

// AccommodationType kind of accommodation.
type AccommodationType string

const (
	AccommodationApartment AccommodationType = "apartment"
	AccommodationHotelRoom AccommodationType = "hotel_room"
	AccommodationEventHall AccommodationType = "event_hall"
)

// Valid reports whether t is a known type.
func (t AccommodationType) Valid() bool {
	return t == AccommodationApartment || t == AccommodationHotelRoom || t == AccommodationEventHall
}

// AccommodationStatus availability.
type AccommodationStatus string

const (
	AccommodationAvailable   AccommodationStatus = "available"
	AccommodationUnavailable AccommodationStatus = "unavailable"
	AccommodationMaintenance AccommodationStatus = "maintenance"
)

// Valid reports whether s is a known status.
func (s AccommodationStatus) Valid() bool {
	return s == AccommodationAvailable || s == AccommodationUnavailable || s == AccommodationMaintenance
}

// Accommodation is a rentable property listing.
type Accommodation struct {
	ID            string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	Type          AccommodationType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Name          string              `gorm:"type:varchar(200);not null" json:"name"`
	Description   string              `gorm:"type:text" json:"description"`
	City          string              `gorm:"type:varchar(100);index" json:"city"`
	District      string              `gorm:"type:varchar(100);index" json:"district"`
	PricePerNight *float64            `gorm:"type:decimal(12,2)" json:"price_per_night"`
	PricePerEvent *float64            `gorm:"type:decimal(12,2)" json:"price_per_event"`
	Status        AccommodationStatus `gorm:"type:varchar(20);not null;default:available;index" json:"status"`
	Images        StringList          `gorm:"type:text" json:"images"`
	CreatedAt     time.Time           `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (Accommodation) TableName() string {
	return "accommodations"
}

// BeforeCreate assigns a UUID and defaults.
func (a *Accommodation) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	if a.Status == "" {
		a.Status = AccommodationAvailable
	}
	if a.Images == nil {
		a.Images = StringList{}
	}
	return nil
}

// VehiclePurpose rent, buy or both.
type VehiclePurpose string

const (
	VehiclePurposeRent VehiclePurpose = "rent"
	VehiclePurposeBuy  VehiclePurpose = "buy"
	VehiclePurposeBoth VehiclePurpose = "both"
)

// Valid reports whether p is a known purpose.
func (p VehiclePurpose) Valid() bool {
	return p == VehiclePurposeRent || p == VehiclePurposeBuy || p == VehiclePurposeBoth
}

// VehicleStatus availability.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleRented      VehicleStatus = "rented"
	VehicleSold        VehicleStatus = "sold"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is a known status.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleRented, VehicleSold, VehicleMaintenance:
		return true
	}
	return false
}

// Vehicle is a vehicle listing for rent and/or sale.
type Vehicle struct {
	ID              string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Purpose         VehiclePurpose `gorm:"type:varchar(10);not null;index" json:"purpose"`
	Make            string         `gorm:"type:varchar(100);not null;index" json:"make"`
	Model           string         `gorm:"type:varchar(100);not null" json:"model"`
	Year            int            `json:"year"`
	VehicleType     string         `gorm:"type:varchar(50)" json:"vehicle_type"`
	Transmission    string         `gorm:"type:varchar(30)" json:"transmission"`
	FuelType        string         `gorm:"type:varchar(30)" json:"fuel_type"`
	SeatingCapacity int            `json:"seating_capacity"`
	DailyRate       *float64       `gorm:"type:decimal(12,2)" json:"daily_rate"`
	SalePrice       *float64       `gorm:"type:decimal(14,2)" json:"sale_price"`
	Status          VehicleStatus  `gorm:"type:varchar(20);not null;default:available;index" json:"status"`
	Images          StringList     `gorm:"type:text" json:"images"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (Vehicle) TableName() string {
	return "vehicles"
}

// BeforeCreate assigns a UUID and defaults.
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	assignID(&v.ID)
	if v.Status == "" {
		v.Status = VehicleAvailable
	}
	if v.Images == nil {
		v.Images = StringList{}
	}
	return nil
}
