package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
)

// RateLimitConfig fixed-window limiter settings
type RateLimitConfig struct {
	Store   *cache.Store
	Scope   string
	Limit   int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// RateLimit counts requests per key in a Redis fixed window. Redis failures let
// the request through.
func RateLimit(cfg *RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := cache.BuildKey(cache.KeyPrefixRateLimit, cfg.Scope, keyFunc(c))
		ctx := c.Request.Context()

		count, err := cfg.Store.IncrWindow(ctx, key, cfg.Window)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("rate limit unavailable", zap.String("key", key), zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.Limit))
		if int(count) > cfg.Limit {
			ttl, _ := cfg.Store.Client().TTL(ctx, key).Result()
			if ttl < 0 {
				ttl = cfg.Window
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			response.TooManyRequests(c, "")
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", cfg.Limit-int(count)))
		c.Next()
	}
}

// AuthRateLimit limits authentication attempts per client IP.
func AuthRateLimit(store *cache.Store, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Store:  store,
		Scope:  "auth",
		Limit:  limit,
		Window: window,
		Logger: logger,
	})
}
