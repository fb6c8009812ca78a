package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
)

// AgentHandler agent approval handler
type AgentHandler struct {
	agentService *adminService.AgentAdminService
}

// NewAgentHandler creates an AgentHandler
func NewAgentHandler(agentService *adminService.AgentAdminService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// Pending lists agents awaiting approval
// @Summary List pending agents
// @Tags Admin-Agents
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Agent}
// @Router /admin/agents/pending [get]
func (h *AgentHandler) Pending(c *gin.Context) {
	agents, err := h.agentService.PendingAgents(c.Request.Context())
	handler.MustSucceed(c, err, agents)
}

// Approve approves a pending agent and activates its account
// @Summary Approve an agent
// @Tags Admin-Agents
// @Produce json
// @Security Bearer
// @Param id path string true "Agent ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/agents/{id}/approve [patch]
func (h *AgentHandler) Approve(c *gin.Context) {
	id, ok := handler.ParseID(c, "Agent")
	if !ok {
		return
	}
	err := h.agentService.Approve(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "Agent approved successfully", nil)
}

// Reject rejects a pending agent
// @Summary Reject an agent
// @Tags Admin-Agents
// @Produce json
// @Security Bearer
// @Param id path string true "Agent ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/agents/{id}/reject [patch]
func (h *AgentHandler) Reject(c *gin.Context) {
	id, ok := handler.ParseID(c, "Agent")
	if !ok {
		return
	}
	err := h.agentService.Reject(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "Agent rejected", nil)
}
