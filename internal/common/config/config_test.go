package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NotNil(t, cfg)

	assert.Equal(t, "rental-marketplace", cfg.Server.Name)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "local", cfg.Upload.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.ListingMaxSize)
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.ProfileMaxSize)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.True(t, cfg.Business.Booking.StrictTransitions)
	assert.Equal(t, 5, cfg.Business.Booking.ReferenceRetries)
	assert.False(t, cfg.SMS.Enabled)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  name: "test-server"
  port: 9000
business:
  booking:
    strict_transitions: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	// Load is guarded by sync.Once; the first call in the package wins.
	assert.NotEmpty(t, cfg.Server.Name)
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "admin",
		Password: "p@ssw0rd",
		Name:     "production",
		SSLMode:  "require",
		Timezone: "UTC",
	}
	assert.Equal(t,
		"host=db.example.com port=5433 user=admin password=p@ssw0rd dbname=production sslmode=require TimeZone=UTC",
		cfg.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.example.com", Port: 6380}
	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestJWTConfig_AccessTokenDuration(t *testing.T) {
	tests := []struct {
		expire int
		want   time.Duration
	}{
		{1, time.Hour},
		{24, 24 * time.Hour},
	}
	for _, tt := range tests {
		cfg := JWTConfig{AccessTokenExpire: tt.expire}
		assert.Equal(t, tt.want, cfg.AccessTokenDuration())
	}
}

func TestConfig_Mode(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Mode: "release"}}
	assert.True(t, cfg.IsRelease())
	assert.False(t, cfg.IsDebug())
}
