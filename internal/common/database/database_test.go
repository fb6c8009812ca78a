package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rentalhub/marketplace-backend/internal/common/config"
)

type testModel struct {
	ID   int64
	Name string
}

func openSQLite(t *testing.T) *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "nested", "test.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, getLogLevel(true))
	assert.Equal(t, gormlogger.Warn, getLogLevel(false))
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(openSQLite(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(context.Background(), db))
	require.NoError(t, db.AutoMigrate(&testModel{}))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestScopes(t *testing.T) {
	db, err := Open(openSQLite(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, db.AutoMigrate(&testModel{}))

	for i := 1; i <= 30; i++ {
		require.NoError(t, db.Create(&testModel{ID: int64(i), Name: "item"}).Error)
	}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"default when zero", 0, 10},
		{"explicit", 5, 5},
		{"capped", 100, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []testModel
			require.NoError(t, db.Scopes(Limit(tt.n, 10, 20)).Find(&rows).Error)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
