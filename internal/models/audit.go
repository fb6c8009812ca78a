package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog records a mutating admin request.
type AuditLog struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AdminUserID  string    `gorm:"type:varchar(36);not null;index" json:"admin_user_id"`
	Action       string    `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType string    `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   *string   `gorm:"type:varchar(36)" json:"resource_id,omitempty"`
	Method       string    `gorm:"type:varchar(10);not null" json:"method"`
	Path         string    `gorm:"type:varchar(255);not null" json:"path"`
	IP           string    `gorm:"type:varchar(45);not null" json:"ip"`
	UserAgent    *string   `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	RequestBody  *string   `gorm:"type:text" json:"request_body,omitempty"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns a UUID.
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}
