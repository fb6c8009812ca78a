// Package content handles contact inquiries and listing reviews.
package content

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
)

// ContactRequest public contact form
type ContactRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Subject     string `json:"subject"`
	Message     string `json:"message" binding:"required"`
}

// InquiryStatusRequest admin status change
type InquiryStatusRequest struct {
	Status models.InquiryStatus `json:"status" binding:"required"`
}

// ContactService contact inquiries
type ContactService struct {
	contactRepo *repository.ContactRepository
}

// NewContactService creates a ContactService
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{contactRepo: repository.NewContactRepository(db)}
}

// Submit stores a new inquiry
func (s *ContactService) Submit(ctx context.Context, req *ContactRequest) (*models.ContactInquiry, error) {
	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, errors.ErrInvalidParams.WithMessage("Invalid email address")
	}
	inquiry := &models.ContactInquiry{
		FullName:    req.FullName,
		Email:       email,
		PhoneNumber: req.PhoneNumber,
		Subject:     req.Subject,
		Message:     req.Message,
		Status:      models.InquiryStatusNew,
	}
	if err := s.contactRepo.Create(ctx, inquiry); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return inquiry, nil
}

// List inquiries newest first, optionally by status
func (s *ContactService) List(ctx context.Context, status string) ([]*models.ContactInquiry, error) {
	if status != "" && !models.InquiryStatus(status).Valid() {
		return nil, errors.ErrInvalidStatus
	}
	items, err := s.contactRepo.List(ctx, status)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}

// UpdateStatus sets new, in_progress or resolved
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	if !status.Valid() {
		return errors.ErrInvalidStatus
	}
	rows, err := s.contactRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrInquiryNotFound
	}
	return nil
}
