// Package auth handles registration and login.
package auth

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/jwt"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/utils"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
)

const referralCodeAttempts = 5

// AuthService registration and login
type AuthService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
	hasher     *crypto.PasswordHasher
}

// NewAuthService creates an AuthService
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	jwtManager *jwt.Manager,
	hasher *crypto.PasswordHasher,
) *AuthService {
	return &AuthService{
		db:         db,
		userRepo:   userRepo,
		jwtManager: jwtManager,
		hasher:     hasher,
	}
}

// RegisterRequest registration body shared by clients and agents.
// ReferralCode is only honoured for clients.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	PhoneNumber  string `json:"phoneNumber"`
	ReferralCode string `json:"referralCode"`
}

// LoginRequest login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo identity returned with a token
type UserInfo struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// TokenResponse token plus identity
type TokenResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// RegisterClient creates an active client with its profile and signs a token.
func (s *AuthService) RegisterClient(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	email := utils.NormalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: models.RoleClient, Status: models.UserStatusActive}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := repository.NewProfileRepository(tx)

		var referrer *string
		if req.ReferralCode != "" {
			agent, err := profiles.GetAgentByReferralCode(ctx, req.ReferralCode)
			if err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return errors.ErrInvalidReferralCode
				}
				return errors.ErrDatabaseError.WithError(err)
			}
			referrer = &agent.ID
		}

		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		client := &models.Client{
			UserID:            user.ID,
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			PhoneNumber:       req.PhoneNumber,
			ReferredByAgentID: referrer,
		}
		if err := profiles.CreateClient(ctx, client); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// RegisterAgent creates a pending agent. The account cannot log in until an
// admin approves it.
func (s *AuthService) RegisterAgent(ctx context.Context, req *RegisterRequest) error {
	email := utils.NormalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := repository.NewProfileRepository(tx)

		code, err := uniqueReferralCode(ctx, profiles)
		if err != nil {
			return err
		}

		user := &models.User{Email: email, PasswordHash: hash, Role: models.RoleAgent, Status: models.UserStatusPending}
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		agent := &models.Agent{
			UserID:       user.ID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PhoneNumber:  req.PhoneNumber,
			ReferralCode: code,
			Status:       models.AgentStatusPending,
		}
		if err := profiles.CreateAgent(ctx, agent); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
}

// Login verifies credentials. Pending accounts are rejected before the password
// is checked.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	switch user.Status {
	case models.UserStatusActive:
	case models.UserStatusPending:
		return nil, errors.ErrAccountPending
	default:
		return nil, errors.ErrAccountInactive.WithMessage("User account is " + string(user.Status) + ".")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		logger.Debug("login rejected", zap.String("user_id", user.ID), zap.String("email", crypto.MaskEmail(user.Email)))
		return nil, errors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	if !utils.ValidateEmail(email) {
		return errors.ErrInvalidParams.WithMessage("Invalid email address")
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return errors.ErrUserExists
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*TokenResponse, error) {
	token, err := s.jwtManager.IssueToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return &TokenResponse{
		Token: token,
		User:  &UserInfo{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

func uniqueReferralCode(ctx context.Context, profiles *repository.ProfileRepository) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code := utils.GenerateReferralCode()
		exists, err := profiles.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", errors.ErrDatabaseError.WithError(err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.ErrInternalError.WithMessage("Could not allocate a referral code")
}
