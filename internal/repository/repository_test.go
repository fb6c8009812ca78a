package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedClient(t *testing.T, db *gorm.DB, email, first, last string) (*models.User, *models.Client) {
	user := &models.User{Email: email, PasswordHash: "x", Role: models.RoleClient, Status: models.UserStatusActive}
	require.NoError(t, db.Create(user).Error)
	client := &models.Client{UserID: user.ID, FirstName: first, LastName: last}
	require.NoError(t, db.Create(client).Error)
	return user, client
}

func seedAgent(t *testing.T, db *gorm.DB, email, code string) (*models.User, *models.Agent) {
	user := &models.User{Email: email, PasswordHash: "x", Role: models.RoleAgent, Status: models.UserStatusPending}
	require.NoError(t, db.Create(user).Error)
	agent := &models.Agent{UserID: user.ID, FirstName: "Agent", ReferralCode: code, Status: models.AgentStatusPending}
	require.NoError(t, db.Create(agent).Error)
	return user, agent
}

func ctx() context.Context {
	return context.Background()
}
