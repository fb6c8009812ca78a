// Package booking provides the booking HTTP handlers.
package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	"github.com/rentalhub/marketplace-backend/internal/middleware"
	"github.com/rentalhub/marketplace-backend/internal/models"
	bookingService "github.com/rentalhub/marketplace-backend/internal/service/booking"
)

// Handler booking handler
type Handler struct {
	bookingService *bookingService.BookingService
}

// NewHandler creates a booking handler
func NewHandler(bookingSvc *bookingService.BookingService) *Handler {
	return &Handler{bookingService: bookingSvc}
}

// CallerFrom builds the booking caller from the authenticated request.
func CallerFrom(c *gin.Context) bookingService.Caller {
	return bookingService.Caller{
		UserID: middleware.GetUserID(c),
		Role:   models.Role(middleware.GetRole(c)),
	}
}

// Create submits a booking request; it always starts pending
// @Summary Create a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body bookingService.CreateBookingRequest true "Booking"
// @Success 201 {object} response.Response{data=models.Booking}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req bookingService.CreateBookingRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), CallerFrom(c), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Booking request submitted successfully", booking)
}

// ListMine lists the calling client's bookings newest first
// @Summary My bookings
// @Tags Bookings
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /bookings/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	bookings, err := h.bookingService.ListForClient(c.Request.Context(), userID)
	handler.MustSucceed(c, err, bookings)
}

// Get booking detail for its client, its agent or an admin
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Security Bearer
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "Booking")
	if !ok {
		return
	}
	booking, err := h.bookingService.Get(c.Request.Context(), CallerFrom(c), id)
	handler.MustSucceed(c, err, booking)
}

// QRCode renders the booking reference as a PNG
// @Summary Booking QR code
// @Tags Bookings
// @Produce png
// @Security Bearer
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Response
// @Router /bookings/{id}/qrcode [get]
func (h *Handler) QRCode(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "Booking")
	if !ok {
		return
	}
	png, err := h.bookingService.QRCode(c.Request.Context(), userID, id)
	if handler.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Cancel cancels one of the calling client's bookings
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Security Bearer
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bookings/{id}/cancel [patch]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "Booking")
	if !ok {
		return
	}
	_, err := h.bookingService.Cancel(c.Request.Context(), userID, id)
	handler.MustSucceedWithMessage(c, err, "Booking cancelled successfully", nil)
}
