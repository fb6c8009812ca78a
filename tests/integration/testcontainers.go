//go:build integration

// Package integration runs service flows against real Postgres and Redis
// containers started with testcontainers-go.
package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Containers holds the running containers and their endpoints.
type Containers struct {
	Postgres    testcontainers.Container
	Redis       testcontainers.Container
	PostgresDSN string
	RedisAddr   string
	ctx         context.Context
}

// PostgresConfig container settings
type PostgresConfig struct {
	Database string
	User     string
	Password string
	Image    string
}

// DefaultPostgresConfig returns the settings used by the suite.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Database: "rental_marketplace_test",
		User:     "test_user",
		Password: "test_password",
		Image:    "postgres:15-alpine",
	}
}

// NewContainers creates an empty container set bound to ctx.
func NewContainers(ctx context.Context) *Containers {
	return &Containers{ctx: ctx}
}

// StartPostgres starts Postgres and records its DSN.
func (tc *Containers) StartPostgres(cfg PostgresConfig) error {
	container, err := tcPostgres.Run(tc.ctx, cfg.Image,
		tcPostgres.WithDatabase(cfg.Database),
		tcPostgres.WithUsername(cfg.User),
		tcPostgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.Postgres = container

	dsn, err := container.ConnectionString(tc.ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get postgres dsn: %w", err)
	}
	tc.PostgresDSN = dsn
	return nil
}

// StartRedis starts Redis and records its address.
func (tc *Containers) StartRedis(image string) error {
	container, err := tcRedis.Run(tc.ctx, image,
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to start redis container: %w", err)
	}
	tc.Redis = container

	host, err := container.Host(tc.ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis host: %w", err)
	}
	port, err := container.MappedPort(tc.ctx, "6379")
	if err != nil {
		return fmt.Errorf("failed to get redis port: %w", err)
	}
	tc.RedisAddr = fmt.Sprintf("%s:%s", host, port.Port())
	return nil
}

// StartAll starts Postgres and Redis with default settings.
func (tc *Containers) StartAll() error {
	if err := tc.StartPostgres(DefaultPostgresConfig()); err != nil {
		return err
	}
	return tc.StartRedis("redis:7-alpine")
}

// DB opens a gorm connection to the Postgres container.
func (tc *Containers) DB() (*gorm.DB, error) {
	if tc.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres container not started")
	}
	db, err := gorm.Open(postgres.Open(tc.PostgresDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// RedisClient returns a pinged client for the Redis container.
func (tc *Containers) RedisClient() (*redis.Client, error) {
	if tc.RedisAddr == "" {
		return nil, fmt.Errorf("redis container not started")
	}
	client := redis.NewClient(&redis.Options{Addr: tc.RedisAddr})

	ctx, cancel := context.WithTimeout(tc.ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Cleanup terminates every started container.
func (tc *Containers) Cleanup() error {
	var errs []error
	if tc.Postgres != nil {
		if err := tc.Postgres.Terminate(tc.ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate postgres: %w", err))
		}
	}
	if tc.Redis != nil {
		if err := tc.Redis.Terminate(tc.ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate redis: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}
