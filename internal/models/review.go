package models

import (
	"time"

	"gorm.io/gorm"
)

// ReviewStatus moderation state.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ReviewStatus) Valid() bool {
	return s == ReviewStatusPending || s == ReviewStatusApproved || s == ReviewStatusRejected
}

// Review rates exactly one accommodation or vehicle.
type Review struct {
	ID              string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientID        string       `gorm:"type:varchar(36);not null;index" json:"client_id"`
	AccommodationID *string      `gorm:"type:varchar(36);index" json:"accommodation_id"`
	VehicleID       *string      `gorm:"type:varchar(36);index" json:"vehicle_id"`
	Rating          int          `gorm:"not null" json:"rating"`
	Comment         string       `gorm:"type:text" json:"comment"`
	Status          ReviewStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	CreatedAt       time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns a UUID.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// ReviewWithAuthor is a review joined with the reviewer's name.
type ReviewWithAuthor struct {
	Review
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// InquiryStatus handling state of a contact inquiry.
type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "new"
	InquiryStatusInProgress InquiryStatus = "in_progress"
	InquiryStatusResolved   InquiryStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s InquiryStatus) Valid() bool {
	return s == InquiryStatusNew || s == InquiryStatusInProgress || s == InquiryStatusResolved
}

// ContactInquiry is a message sent through the public contact form.
type ContactInquiry struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName    string        `gorm:"type:varchar(200);not null" json:"full_name"`
	Email       string        `gorm:"type:varchar(255);not null" json:"email"`
	PhoneNumber string        `gorm:"type:varchar(30)" json:"phone_number"`
	Subject     string        `gorm:"type:varchar(255)" json:"subject"`
	Message     string        `gorm:"type:text;not null" json:"message"`
	Status      InquiryStatus `gorm:"type:varchar(20);not null;default:new;index" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (ContactInquiry) TableName() string {
	return "contact_inquiries"
}

// BeforeCreate assigns a UUID.
func (c *ContactInquiry) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
