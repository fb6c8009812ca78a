package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rentalhub/marketplace-backend/internal/common/database"
)

// HealthResponse health check body
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// healthHandler liveness
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// readyHandler pings the database and Redis
func readyHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		healthy := true

		checks["database"] = "ok"
		if err := database.Ping(ctx, db); err != nil {
			checks["database"] = "error: " + err.Error()
			healthy = false
		}

		checks["redis"] = "ok"
		if redisClient == nil {
			checks["redis"] = "disabled"
		} else if err := redisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		}

		status, text := http.StatusOK, "ready"
		if !healthy {
			status, text = http.StatusServiceUnavailable, "not ready"
		}
		c.JSON(status, HealthResponse{
			Status:    text,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}
