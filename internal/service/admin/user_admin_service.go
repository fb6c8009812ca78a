// Package admin implements the back-office operations.
package admin

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
)

// CreateUserRequest admin user creation. Role defaults to client.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateUserRequest only role and status can be changed
type UpdateUserRequest struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// UserAdminService user management
type UserAdminService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	hasher   *crypto.PasswordHasher
}

// NewUserAdminService creates a UserAdminService
func NewUserAdminService(db *gorm.DB, hasher *crypto.PasswordHasher) *UserAdminService {
	return &UserAdminService{
		db:       db,
		userRepo: repository.NewUserRepository(db),
		hasher:   hasher,
	}
}

// ListUsers all users, newest first
func (s *UserAdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return users, nil
}

// CreateUser creates an active user and its role profile in one transaction.
// Agents created here are approved immediately.
func (s *UserAdminService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	role := models.RoleClient
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	if !role.Valid() {
		return nil, errors.ErrInvalidRole
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, errors.ErrInvalidParams.WithMessage("Invalid email address")
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrUserExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: role, Status: models.UserStatusActive}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		profiles := repository.NewProfileRepository(tx)
		switch role {
		case models.RoleClient:
			return profiles.CreateClient(ctx, &models.Client{UserID: user.ID, FirstName: req.FirstName, LastName: req.LastName, PhoneNumber: req.PhoneNumber})
		case models.RoleAdmin:
			return profiles.CreateAdmin(ctx, &models.AdminProfile{UserID: user.ID, FirstName: req.FirstName, LastName: req.LastName, PhoneNumber: req.PhoneNumber})
		default:
			code, err := uniqueReferralCode(ctx, profiles)
			if err != nil {
				return err
			}
			return profiles.CreateAgent(ctx, &models.Agent{
				UserID:       user.ID,
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				PhoneNumber:  req.PhoneNumber,
				ReferralCode: code,
				Status:       models.AgentStatusApproved,
			})
		}
	})
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// UpdateUser writes role and status only.
func (s *UserAdminService) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) error {
	fields := make(map[string]interface{})
	if req.Role != nil && *req.Role != "" {
		if !models.Role(*req.Role).Valid() {
			return errors.ErrInvalidRole
		}
		fields["role"] = *req.Role
	}
	if req.Status != nil && *req.Status != "" {
		if !models.UserStatus(*req.Status).Valid() {
			return errors.ErrInvalidStatus
		}
		fields["status"] = *req.Status
	}

	if len(fields) == 0 {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return userNotFound(err)
		}
		return nil
	}

	rows, err := s.userRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if rows == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user together with its profile rows.
func (s *UserAdminService) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewProfileRepository(tx).DeleteProfiles(ctx, id); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		rows, err := repository.NewUserRepository(tx).Delete(ctx, id)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if rows == 0 {
			return errors.ErrUserNotFound
		}
		return nil
	})
}

func userNotFound(err error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrUserNotFound
	}
	return errors.ErrDatabaseError.WithError(err)
}

func uniqueReferralCode(ctx context.Context, profiles *repository.ProfileRepository) (string, error) {
	for i := 0; i < 5; i++ {
		code := utils.GenerateReferralCode()
		exists, err := profiles.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.ErrInternalError.WithMessage("Could not allocate a referral code")
}
