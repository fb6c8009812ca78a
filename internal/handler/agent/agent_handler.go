// Package agent provides the agent dashboard HTTP handlers.
package agent

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	agentService "github.com/rentalhub/marketplace-backend/internal/service/agent"
)

// Handler agent handler
type Handler struct {
	agentService *agentService.AgentService
}

// NewHandler creates an agent handler
func NewHandler(agentSvc *agentService.AgentService) *Handler {
	return &Handler{agentService: agentSvc}
}

// Commissions lists the agent's commissions
// @Summary My commissions
// @Description degraded is true when the store could not be read
// @Tags Agents
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=response.ListData}
// @Failure 404 {object} response.Response
// @Router /agents/commissions [get]
func (h *Handler) Commissions(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	list, err := h.agentService.Commissions(c.Request.Context(), userID)
	if handler.HandleError(c, err) {
		return
	}
	response.Success(c, response.ListData{Items: list.Items, Degraded: list.Degraded})
}

// Stats commission totals by status
// @Summary My commission stats
// @Tags Agents
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=commission.AgentStats}
// @Failure 404 {object} response.Response
// @Router /agents/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	stats, err := h.agentService.Stats(c.Request.Context(), userID)
	handler.MustSucceed(c, err, stats)
}

// ReferralCode the agent's referral code
// @Summary My referral code
// @Tags Agents
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=agentService.ReferralCode}
// @Failure 404 {object} response.Response
// @Router /agents/referral-code [get]
func (h *Handler) ReferralCode(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	code, err := h.agentService.ReferralCode(c.Request.Context(), userID)
	handler.MustSucceed(c, err, code)
}

// ReferralQRCode the referral code as a PNG
// @Summary My referral QR code
// @Tags Agents
// @Produce png
// @Security Bearer
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /agents/referral-code/qrcode [get]
func (h *Handler) ReferralQRCode(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	png, err := h.agentService.ReferralQRCode(c.Request.Context(), userID)
	if handler.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Clients clients who booked through the agent
// @Summary My clients
// @Tags Agents
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]repository.AgentClient}
// @Failure 404 {object} response.Response
// @Router /agents/clients [get]
func (h *Handler) Clients(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	clients, err := h.agentService.Clients(c.Request.Context(), userID)
	handler.MustSucceed(c, err, clients)
}
