// Package auth provides the registration and login HTTP handlers.
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	authService "github.com/rentalhub/marketplace-backend/internal/service/auth"
)

// Handler auth handler
type Handler struct {
	authService *authService.AuthService
}

// NewHandler creates an auth handler
func NewHandler(authSvc *authService.AuthService) *Handler {
	return &Handler{authService: authSvc}
}

// RegisterClient registers a client and returns a token
// @Summary Register a client
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body authService.RegisterRequest true "Registration"
// @Success 201 {object} response.Response{data=authService.TokenResponse}
// @Failure 400 {object} response.Response
// @Router /auth/register/client [post]
func (h *Handler) RegisterClient(c *gin.Context) {
	var req authService.RegisterRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.RegisterClient(c.Request.Context(), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Client registered successfully", result)
}

// RegisterAgent submits an agent registration for approval
// @Summary Register an agent
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body authService.RegisterRequest true "Registration"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register/agent [post]
func (h *Handler) RegisterAgent(c *gin.Context) {
	var req authService.RegisterRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if handler.HandleError(c, h.authService.RegisterAgent(c.Request.Context(), &req)) {
		return
	}
	response.Created(c, "Agent registration submitted for approval", nil)
}

// Login exchanges credentials for a token
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body authService.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=authService.TokenResponse}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}
