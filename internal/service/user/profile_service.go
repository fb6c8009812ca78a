// Package user serves the authenticated user's own profile.
package user

import (
	"context"
	stderrors "errors"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// Profile account plus role profile. Missing profile fields are "" or null.
type Profile struct {
	Email        string            `json:"email"`
	Role         models.Role       `json:"role"`
	Status       models.UserStatus `json:"status"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	PhoneNumber  string            `json:"phone_number"`
	ProfileImage *string           `json:"profile_image"`
	ReferralCode string            `json:"referral_code,omitempty"`
}

// UpdateProfileRequest multipart profile form
type UpdateProfileRequest struct {
	FirstName   string `form:"firstName" json:"firstName"`
	LastName    string `form:"lastName" json:"lastName"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
}

// ProfileService profile service
type ProfileService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	uploads     *upload.UploadService
}

// NewProfileService creates a ProfileService
func NewProfileService(db *gorm.DB, uploads *upload.UploadService) *ProfileService {
	return &ProfileService{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		uploads:     uploads,
	}
}

// GetProfile returns the caller's account and role profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound.WithMessage("User record not found")
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	profile := &Profile{Email: user.Email, Role: user.Role, Status: user.Status}
	switch user.Role {
	case models.RoleClient:
		if c, err := s.profileRepo.GetClientByUserID(ctx, userID); err == nil {
			profile.FirstName, profile.LastName, profile.PhoneNumber, profile.ProfileImage = c.FirstName, c.LastName, c.PhoneNumber, c.ProfileImage
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	case models.RoleAgent:
		if a, err := s.profileRepo.GetAgentByUserID(ctx, userID); err == nil {
			profile.FirstName, profile.LastName, profile.PhoneNumber, profile.ProfileImage = a.FirstName, a.LastName, a.PhoneNumber, a.ProfileImage
			profile.ReferralCode = a.ReferralCode
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	case models.RoleAdmin:
		if p, err := s.profileRepo.GetAdminByUserID(ctx, userID); err == nil {
			profile.FirstName, profile.LastName, profile.PhoneNumber, profile.ProfileImage = p.FirstName, p.LastName, p.PhoneNumber, p.ProfileImage
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return profile, nil
}

// UpdateProfile upserts the role profile. A new image replaces the old file.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, role models.Role, req *UpdateProfileRequest, image *multipart.FileHeader) error {
	if !role.Valid() {
		return errors.ErrProfileNotAllowed
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	fields := repository.ProfileFields{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	}
	if image != nil {
		stored, err := s.uploads.Save(ctx, upload.CategoryProfiles, image)
		if err != nil {
			return err
		}
		fields.ProfileImage = &stored
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewProfileRepository(tx).UpsertProfile(ctx, userID, role, fields)
	})
	if err != nil {
		if fields.ProfileImage != nil {
			s.uploads.DeleteAll(ctx, []string{*fields.ProfileImage})
		}
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrAgentNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if fields.ProfileImage != nil && current.ProfileImage != nil {
		s.uploads.DeleteAll(ctx, []string{*current.ProfileImage})
	}
	return nil
}
