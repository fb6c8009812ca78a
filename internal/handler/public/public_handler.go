// Package public provides unauthenticated platform endpoints.
package public

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	statsService "github.com/rentalhub/marketplace-backend/internal/service/stats"
)

// Handler public handler
type Handler struct {
	statsService *statsService.StatsService
}

// NewHandler creates a public handler
func NewHandler(statsSvc *statsService.StatsService) *Handler {
	return &Handler{statsService: statsSvc}
}

// Stats cached platform counters
// @Summary Public statistics
// @Tags Public
// @Produce json
// @Success 200 {object} response.Response{data=statsService.PublicStats}
// @Router /public/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.statsService.Public(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}
