// Package admin provides the back-office HTTP handlers.
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	adminService "github.com/rentalhub/marketplace-backend/internal/service/admin"
)

// UserHandler user management handler
type UserHandler struct {
	userService *adminService.UserAdminService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userService *adminService.UserAdminService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List lists every user newest first
// @Summary List users
// @Tags Admin-Users
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.User}
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	handler.MustSucceed(c, err, users)
}

// Create creates a user with its role profile
// @Summary Create a user
// @Tags Admin-Users
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateUserRequest true "User"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req adminService.CreateUserRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "User created successfully", gin.H{"id": user.ID})
}

// Update changes a user's role and/or status
// @Summary Update a user
// @Tags Admin-Users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param request body adminService.UpdateUserRequest true "Fields"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "User")
	if !ok {
		return
	}
	var req adminService.UpdateUserRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	handler.MustSucceedWithMessage(c, err, "User updated successfully", nil)
}

// Delete removes a user and its profile rows
// @Summary Delete a user
// @Tags Admin-Users
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "User")
	if !ok {
		return
	}
	err := h.userService.DeleteUser(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "User deleted successfully", nil)
}
