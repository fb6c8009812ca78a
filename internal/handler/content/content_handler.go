// Package content provides the contact and review HTTP handlers.
package content

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	contentService "github.com/rentalhub/marketplace-backend/internal/service/content"
)

// Handler content handler
type Handler struct {
	contactService *contentService.ContactService
	reviewService  *contentService.ReviewService
}

// NewHandler creates a content handler
func NewHandler(contactSvc *contentService.ContactService, reviewSvc *contentService.ReviewService) *Handler {
	return &Handler{
		contactService: contactSvc,
		reviewService:  reviewSvc,
	}
}

// SubmitInquiry public contact form
// @Summary Submit a contact inquiry
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body contentService.ContactRequest true "Inquiry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /contact [post]
func (h *Handler) SubmitInquiry(c *gin.Context) {
	var req contentService.ContactRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if _, err := h.contactService.Submit(c.Request.Context(), &req); handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Inquiry submitted successfully", nil)
}

// ListInquiries lists inquiries newest first
// @Summary List contact inquiries
// @Tags Contact
// @Produce json
// @Security Bearer
// @Param status query string false "new, in_progress or resolved"
// @Success 200 {object} response.Response{data=[]models.ContactInquiry}
// @Router /contact [get]
func (h *Handler) ListInquiries(c *gin.Context) {
	items, err := h.contactService.List(c.Request.Context(), c.Query("status"))
	handler.MustSucceed(c, err, items)
}

// UpdateInquiryStatus sets an inquiry's handling status
// @Summary Update inquiry status
// @Tags Contact
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Inquiry ID"
// @Param request body contentService.InquiryStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contact/{id}/status [patch]
func (h *Handler) UpdateInquiryStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "Inquiry")
	if !ok {
		return
	}
	var req contentService.InquiryStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	err := h.contactService.UpdateStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceedWithMessage(c, err, "Inquiry status updated", nil)
}

// SubmitReview stores a review pending moderation
// @Summary Submit a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body contentService.ReviewRequest true "Review"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reviews [post]
func (h *Handler) SubmitReview(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	var req contentService.ReviewRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if _, err := h.reviewService.Submit(c.Request.Context(), userID, &req); handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Review submitted for moderation", nil)
}

// ListReviews approved reviews of a listing
// @Summary List reviews of a listing
// @Tags Reviews
// @Produce json
// @Param type path string true "accommodation or vehicle"
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Response{data=[]models.ReviewWithAuthor}
// @Failure 400 {object} response.Response
// @Router /reviews/{type}/{id} [get]
func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListByTarget(c.Request.Context(), c.Param("type"), c.Param("id"))
	handler.MustSucceed(c, err, reviews)
}
