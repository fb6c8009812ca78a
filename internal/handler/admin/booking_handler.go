package admin

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	bookingService "github.com/rentalhub/marketplace-backend/internal/service/booking"
)

// BookingHandler admin booking handler
type BookingHandler struct {
	bookingService *bookingService.BookingService
}

// NewBookingHandler creates a BookingHandler
func NewBookingHandler(bookingSvc *bookingService.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingSvc}
}

// List lists all bookings newest first
// @Summary List bookings
// @Tags Admin-Bookings
// @Produce json
// @Security Bearer
// @Param status query string false "Booking status"
// @Param booking_type query string false "Booking type"
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /admin/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	filter := repository.BookingFilter{
		Status:      c.Query("status"),
		BookingType: c.Query("booking_type"),
	}
	bookings, err := h.bookingService.ListAll(c.Request.Context(), filter)
	handler.MustSucceed(c, err, bookings)
}

// UpdateStatus moves a booking to a new status
// @Summary Update booking status
// @Tags Admin-Bookings
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Booking ID"
// @Param request body bookingService.UpdateStatusRequest true "Status"
// @Success 200 {object} response.Response{data=models.Booking}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "Booking")
	if !ok {
		return
	}
	var req bookingService.UpdateStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceedWithMessage(c, err, fmt.Sprintf("Booking %s successfully", req.Status), booking)
}
