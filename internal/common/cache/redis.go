// Package cache wraps the Redis client used for caching and rate limiting.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentalhub/marketplace-backend/internal/common/config"
)

// ErrMiss is returned by GetJSON when the key does not exist.
var ErrMiss = errors.New("cache miss")

// Key prefixes.
const (
	KeyPrefixRateLimit = "ratelimit:"
	KeyPublicStats     = "stats:public"
)

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return rdb, nil
}

// Store is a JSON cache over a Redis client.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a Store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Client returns the underlying client.
func (s *Store) Client() *redis.Client {
	return s.rdb
}

// SetJSON stores value as JSON.
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON decodes the value at key into dest. Returns ErrMiss if absent.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete removes keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

// IncrWindow increments key and sets its expiry on the first hit of a window.
func (s *Store) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// BuildKey joins a prefix and parts with ':'.
func BuildKey(prefix string, parts ...string) string {
	return prefix + strings.Join(parts, ":")
}
