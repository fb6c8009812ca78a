package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a user's access role.
type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAgent || r == RoleAdmin
}

// UserStatus account state.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}

// User is a login identity.
type User struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"type:varchar(255);not null" json:"-"`
	Role          Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	Status        UserStatus `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// Client is the profile of a client user.
type Client struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	FirstName         string    `gorm:"type:varchar(100);not null;default:''" json:"first_name"`
	LastName          string    `gorm:"type:varchar(100);not null;default:''" json:"last_name"`
	PhoneNumber       string    `gorm:"type:varchar(30);not null;default:''" json:"phone_number"`
	ProfileImage      *string   `gorm:"type:varchar(255)" json:"profile_image"`
	ReferredByAgentID *string   `gorm:"type:varchar(36);index" json:"referred_by_agent_id,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate assigns a UUID.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// AgentStatus approval state of an agent.
type AgentStatus string

const (
	AgentStatusPending  AgentStatus = "pending"
	AgentStatusApproved AgentStatus = "approved"
	AgentStatusRejected AgentStatus = "rejected"
)

// Agent is the profile of an agent user.
type Agent struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	FirstName    string      `gorm:"type:varchar(100);not null;default:''" json:"first_name"`
	LastName     string      `gorm:"type:varchar(100);not null;default:''" json:"last_name"`
	PhoneNumber  string      `gorm:"type:varchar(30);not null;default:''" json:"phone_number"`
	ProfileImage *string     `gorm:"type:varchar(255)" json:"profile_image"`
	ReferralCode string      `gorm:"type:varchar(16);uniqueIndex;not null" json:"referral_code"`
	Status       AgentStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	ApprovedAt   *time.Time  `json:"approved_at,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName table name
func (Agent) TableName() string {
	return "agents"
}

// BeforeCreate assigns a UUID.
func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// AdminProfile is the profile of an admin user.
type AdminProfile struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	FirstName    string    `gorm:"type:varchar(100);not null;default:''" json:"first_name"`
	LastName     string    `gorm:"type:varchar(100);not null;default:''" json:"last_name"`
	PhoneNumber  string    `gorm:"type:varchar(30);not null;default:''" json:"phone_number"`
	ProfileImage *string   `gorm:"type:varchar(255)" json:"profile_image"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName table name
func (AdminProfile) TableName() string {
	return "admin_profiles"
}

// BeforeCreate assigns a UUID.
func (p *AdminProfile) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
