package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/crypto"
	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/internal/common/jwt"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	"github.com/rentalhub/marketplace-backend/tests/helpers"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, *jwt.Manager) {
	db := helpers.NewTestDB(t)
	manager := jwt.NewManager(&jwt.Config{Secret: "test-secret", AccessExpireTime: time.Hour, Issuer: "test"})
	svc := NewAuthService(db, repository.NewUserRepository(db), manager, crypto.NewPasswordHasher(4))
	return svc, db, manager
}

func registerRequest(email string) *RegisterRequest {
	return &RegisterRequest{
		Email:       email,
		Password:    "Secret123!",
		FirstName:   "Ada",
		LastName:    "Mukamana",
		PhoneNumber: "+250788000111",
	}
}

func TestAuthService_RegisterClientThenLogin(t *testing.T) {
	svc, db, manager := setupAuthService(t)
	ctx := context.Background()

	resp, err := svc.RegisterClient(ctx, registerRequest("Ada@Example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, models.RoleClient, resp.User.Role)

	var client models.Client
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&client).Error)
	assert.Equal(t, "Ada", client.FirstName)
	assert.Nil(t, client.ReferredByAgentID)

	login, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "Secret123!"})
	require.NoError(t, err)

	claims, err := manager.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "client", claims.Role)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterClient(ctx, registerRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterClient(ctx, registerRequest("DUP@example.com"))
	assert.ErrorIs(t, err, errors.ErrUserExists)

	err = svc.RegisterAgent(ctx, registerRequest("dup@example.com"))
	assert.ErrorIs(t, err, errors.ErrUserExists)
}

func TestAuthService_RegisterClientWithReferral(t *testing.T) {
	svc, db, _ := setupAuthService(t)
	ctx := context.Background()
	_, agent := helpers.SeedApprovedAgent(t, db)

	req := registerRequest("referred@example.com")
	req.ReferralCode = agent.ReferralCode
	resp, err := svc.RegisterClient(ctx, req)
	require.NoError(t, err)

	var client models.Client
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&client).Error)
	require.NotNil(t, client.ReferredByAgentID)
	assert.Equal(t, agent.ID, *client.ReferredByAgentID)

	bad := registerRequest("bad-code@example.com")
	bad.ReferralCode = "NOPE2345"
	_, err = svc.RegisterClient(ctx, bad)
	assert.ErrorIs(t, err, errors.ErrInvalidReferralCode)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "bad-code@example.com").Count(&count)
	assert.Zero(t, count)
}

func TestAuthService_AgentPendingUntilApproved(t *testing.T) {
	svc, db, _ := setupAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.RegisterAgent(ctx, registerRequest("agent@example.com")))

	var user models.User
	require.NoError(t, db.Where("email = ?", "agent@example.com").First(&user).Error)
	assert.Equal(t, models.UserStatusPending, user.Status)
	assert.Equal(t, models.RoleAgent, user.Role)

	var agent models.Agent
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&agent).Error)
	assert.Equal(t, models.AgentStatusPending, agent.Status)
	assert.Len(t, agent.ReferralCode, 8)

	// pending is reported even with a wrong password
	_, err := svc.Login(ctx, &LoginRequest{Email: "agent@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, errors.ErrAccountPending)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, db, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	user, _ := helpers.SeedClient(t, db)
	_, err = svc.Login(ctx, &LoginRequest{Email: user.Email, Password: "wrong"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	require.NoError(t, db.Model(user).Update("status", models.UserStatusSuspended).Error)
	_, err = svc.Login(ctx, &LoginRequest{Email: user.Email, Password: helpers.TestPassword})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "User account is suspended.", appErr.Message)
	assert.Equal(t, 403, appErr.HTTPStatus())
}

func TestAuthService_RejectsInvalidEmail(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	_, err := svc.RegisterClient(context.Background(), registerRequest("not-an-email"))
	assert.ErrorIs(t, err, errors.ErrInvalidParams)
}
