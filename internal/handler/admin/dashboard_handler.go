package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
	statsService "github.com/rentalhub/marketplace-backend/internal/service/stats"
)

// DashboardHandler admin overview handler
type DashboardHandler struct {
	statsService *statsService.StatsService
	auditService *adminService.AuditService
}

// NewDashboardHandler creates a DashboardHandler
func NewDashboardHandler(statsSvc *statsService.StatsService, auditSvc *adminService.AuditService) *DashboardHandler {
	return &DashboardHandler{statsService: statsSvc, auditService: auditSvc}
}

// Stats platform counters
// @Summary Admin statistics
// @Tags Admin-Dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=statsService.AdminStats}
// @Router /admin/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.Admin(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}

// AuditLogs latest admin actions
// @Summary List audit logs
// @Tags Admin-Dashboard
// @Produce json
// @Security Bearer
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Response{data=[]models.AuditLog}
// @Router /admin/audit-logs [get]
func (h *DashboardHandler) AuditLogs(c *gin.Context) {
	logs, err := h.auditService.Recent(c.Request.Context(), handler.QueryInt(c, "limit", 50))
	handler.MustSucceed(c, err, logs)
}
