package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Email: "a@example.com", PasswordHash: "hash", Role: models.RoleClient, Status: models.UserStatusActive}
	require.NoError(t, repo.Create(ctx(), user))
	assert.NotEmpty(t, user.ID)

	got, err := repo.GetByID(ctx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	got, err = repo.GetByEmail(ctx(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByID(ctx(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsByEmail(ctx(), "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByEmail(ctx(), "b@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdateDeleteCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user, _ := seedAgent(t, db, "agent@example.com", "CODE1234")

	n, err := repo.CountByRoleAndStatus(ctx(), models.RoleAgent, models.UserStatusActive)
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := repo.UpdateFields(ctx(), user.ID, map[string]interface{}{"status": models.UserStatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	n, err = repo.CountByRoleAndStatus(ctx(), models.RoleAgent, models.UserStatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err = repo.Delete(ctx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.Delete(ctx(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	older := &models.User{Email: "old@example.com", PasswordHash: "x", Role: models.RoleClient, Status: models.UserStatusActive,
		CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx(), older))
	newer := &models.User{Email: "new@example.com", PasswordHash: "x", Role: models.RoleClient, Status: models.UserStatusActive}
	require.NoError(t, repo.Create(ctx(), newer))

	users, err := repo.List(ctx())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "new@example.com", users[0].Email)
}

func TestProfileRepository_Agents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user, agent := seedAgent(t, db, "agent@example.com", "ABCD2345")

	got, err := repo.GetAgentByUserID(ctx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, got.ID)

	got, err = repo.GetAgentByReferralCode(ctx(), "ABCD2345")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, got.ID)

	taken, err := repo.ReferralCodeExists(ctx(), "ABCD2345")
	require.NoError(t, err)
	assert.True(t, taken)

	pending, err := repo.ListPendingAgents(ctx())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].User)
	assert.Equal(t, "agent@example.com", pending[0].User.Email)

	now := time.Now()
	rows, err := repo.SetAgentStatus(ctx(), agent.ID, models.AgentStatusApproved, &now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err = repo.GetAgentByID(ctx(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)

	n, err := repo.CountAgentsByStatus(ctx(), models.AgentStatusPending)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProfileRepository_UpsertProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)

	user := &models.User{Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin, Status: models.UserStatusActive}
	require.NoError(t, db.Create(user).Error)

	// creates the missing admin profile
	require.NoError(t, repo.UpsertProfile(ctx(), user.ID, models.RoleAdmin, ProfileFields{FirstName: "Ada"}))
	admin, err := repo.GetAdminByUserID(ctx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", admin.FirstName)

	img := "/uploads/profiles/p.png"
	require.NoError(t, repo.UpsertProfile(ctx(), user.ID, models.RoleAdmin, ProfileFields{FirstName: "Ada", LastName: "L", ProfileImage: &img}))
	admin, err = repo.GetAdminByUserID(ctx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "L", admin.LastName)
	require.NotNil(t, admin.ProfileImage)
	assert.Equal(t, img, *admin.ProfileImage)

	// agent profiles are never created implicitly
	err = repo.UpsertProfile(ctx(), "nobody", models.RoleAgent, ProfileFields{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProfileRepository_DeleteProfiles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user, _ := seedClient(t, db, "c@example.com", "A", "B")

	require.NoError(t, repo.DeleteProfiles(ctx(), user.ID))
	_, err := repo.GetClientByUserID(ctx(), user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
