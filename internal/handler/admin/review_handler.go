package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	contentService "github.com/rentalhub/marketplace-backend/internal/service/content"
)

// ReviewHandler review moderation handler
type ReviewHandler struct {
	reviewService *contentService.ReviewService
}

// NewReviewHandler creates a ReviewHandler
func NewReviewHandler(reviewSvc *contentService.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewSvc}
}

// List lists reviews for moderation
// @Summary List reviews
// @Tags Admin-Reviews
// @Produce json
// @Security Bearer
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Response{data=[]models.Review}
// @Router /admin/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviewService.List(c.Request.Context(), c.Query("status"))
	handler.MustSucceed(c, err, reviews)
}

// UpdateStatus approves or rejects a review
// @Summary Moderate a review
// @Tags Admin-Reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Review ID"
// @Param request body contentService.ReviewStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/reviews/{id}/status [patch]
func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "Review")
	if !ok {
		return
	}
	var req contentService.ReviewStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	err := h.reviewService.UpdateStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceedWithMessage(c, err, "Review status updated", nil)
}
