// Package user provides the profile HTTP handlers.
package user

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/middleware"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
	userService "github.com/rentalhub/marketplace-backend/internal/service/user"
)

// Handler profile handler
type Handler struct {
	profileService *userService.ProfileService
}

// NewHandler creates a profile handler
func NewHandler(profileSvc *userService.ProfileService) *Handler {
	return &Handler{profileService: profileSvc}
}

// GetProfile the caller's account and profile
// @Summary Get my profile
// @Tags Users
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=userService.Profile}
// @Failure 404 {object} response.Response
// @Router /users/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	handler.MustSucceed(c, err, profile)
}

// UpdateProfile updates names, phone number and profile image
// @Summary Update my profile
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param firstName formData string false "First name"
// @Param lastName formData string false "Last name"
// @Param phoneNumber formData string false "Phone number"
// @Param profile_image formData file false "Profile image"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	var req userService.UpdateProfileRequest
	if !handler.BindForm(c, &req) {
		return
	}

	err := h.profileService.UpdateProfile(c.Request.Context(), userID,
		models.Role(middleware.GetRole(c)), &req, handler.FormFile(c, upload.FieldProfileImage))
	handler.MustSucceedWithMessage(c, err, "Profile updated successfully", nil)
}
