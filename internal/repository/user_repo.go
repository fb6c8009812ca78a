// Package repository provides data access for the marketplace entities.
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

// UserRepository user store
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID returns a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether an account uses the email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// List returns every user, newest first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// UpdateFields writes the given columns. Callers own the column allow-list.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete removes a user row
func (r *UserRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	return result.RowsAffected, result.Error
}

// CountByRoleAndStatus counts users with the role and status
func (r *UserRepository) CountByRoleAndStatus(ctx context.Context, role models.Role, status models.UserStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND status = ?", role, status).
		Count(&count).Error
	return count, err
}

// ProfileRepository stores the role profiles (clients, agents, admin_profiles)
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a ProfileRepository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateClient inserts a client profile
func (r *ProfileRepository) CreateClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// CreateAgent inserts an agent profile
func (r *ProfileRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// CreateAdmin inserts an admin profile
func (r *ProfileRepository) CreateAdmin(ctx context.Context, admin *models.AdminProfile) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetClientByUserID returns the client profile of a user
func (r *ProfileRepository) GetClientByUserID(ctx context.Context, userID string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientByID returns a client profile by id
func (r *ProfileRepository) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetAgentByUserID returns the agent profile of a user
func (r *ProfileRepository) GetAgentByUserID(ctx context.Context, userID string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetAgentByID returns an agent profile by id
func (r *ProfileRepository) GetAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetAgentByReferralCode returns the agent owning a referral code
func (r *ProfileRepository) GetAgentByReferralCode(ctx context.Context, code string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// ReferralCodeExists reports whether a referral code is taken
func (r *ProfileRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agent{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// GetAdminByUserID returns the admin profile of a user
func (r *ProfileRepository) GetAdminByUserID(ctx context.Context, userID string) (*models.AdminProfile, error) {
	var admin models.AdminProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// ListPendingAgents returns agents awaiting approval with their users, newest first
func (r *ProfileRepository) ListPendingAgents(ctx context.Context) ([]*models.Agent, error) {
	var agents []*models.Agent
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.AgentStatusPending).
		Order("created_at DESC").
		Find(&agents).Error
	return agents, err
}

// CountAgentsByStatus counts agent profiles in a status
func (r *ProfileRepository) CountAgentsByStatus(ctx context.Context, status models.AgentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agent{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SetAgentStatus updates an agent's status. approvedAt is written only when non-nil.
func (r *ProfileRepository) SetAgentStatus(ctx context.Context, id string, status models.AgentStatus, approvedAt *time.Time) (int64, error) {
	fields := map[string]interface{}{"status": status}
	if approvedAt != nil {
		fields["approved_at"] = *approvedAt
	}
	result := r.db.WithContext(ctx).Model(&models.Agent{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// ProfileFields is the writable part of a role profile
type ProfileFields struct {
	FirstName    string
	LastName     string
	PhoneNumber  string
	ProfileImage *string
}

func (f ProfileFields) columns() map[string]interface{} {
	cols := map[string]interface{}{
		"first_name":   f.FirstName,
		"last_name":    f.LastName,
		"phone_number": f.PhoneNumber,
	}
	if f.ProfileImage != nil {
		cols["profile_image"] = *f.ProfileImage
	}
	return cols
}

// UpsertProfile updates the profile row for a user's role or creates it when absent.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, userID string, role models.Role, f ProfileFields) error {
	db := r.db.WithContext(ctx)
	var model interface{}
	switch role {
	case models.RoleClient:
		model = &models.Client{}
	case models.RoleAgent:
		model = &models.Agent{}
	case models.RoleAdmin:
		model = &models.AdminProfile{}
	default:
		return gorm.ErrInvalidValue
	}

	result := db.Model(model).Where("user_id = ?", userID).Updates(f.columns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	switch role {
	case models.RoleClient:
		return db.Create(&models.Client{UserID: userID, FirstName: f.FirstName, LastName: f.LastName,
			PhoneNumber: f.PhoneNumber, ProfileImage: f.ProfileImage}).Error
	case models.RoleAdmin:
		return db.Create(&models.AdminProfile{UserID: userID, FirstName: f.FirstName, LastName: f.LastName,
			PhoneNumber: f.PhoneNumber, ProfileImage: f.ProfileImage}).Error
	}
	// agents are created at registration together with their referral code
	return gorm.ErrRecordNotFound
}

// DeleteProfiles removes every profile row owned by a user
func (r *ProfileRepository) DeleteProfiles(ctx context.Context, userID string) error {
	db := r.db.WithContext(ctx)
	for _, model := range []interface{}{&models.Client{}, &models.Agent{}, &models.AdminProfile{}} {
		if err := db.Where("user_id = ?", userID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
