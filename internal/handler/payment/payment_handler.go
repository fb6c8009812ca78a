// Package payment provides the payment HTTP handlers.
package payment

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	bookingHandler "github.com/rentalhub/marketplace-backend/internal/handler/booking"
	paymentService "github.com/rentalhub/marketplace-backend/internal/service/payment"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// Handler payment handler
type Handler struct {
	paymentService *paymentService.PaymentService
}

// NewHandler creates a payment handler
func NewHandler(paymentSvc *paymentService.PaymentService) *Handler {
	return &Handler{paymentService: paymentSvc}
}

// Create records a payment claim for one of the caller's bookings
// @Summary Submit a payment
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param booking_id formData string true "Booking ID"
// @Param amount formData number true "Amount"
// @Param payment_method formData string true "Payment method"
// @Param transaction_id formData string false "Transaction reference"
// @Param payment_proof formData file false "Proof image"
// @Success 201 {object} response.Response{data=models.Payment}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /payments [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}
	var req paymentService.CreateRequest
	if !handler.BindForm(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), userID, &req,
		handler.FormFile(c, upload.FieldPaymentProof))
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Payment submitted successfully", payment)
}

// ListByBooking payments of a booking
// @Summary Booking payments
// @Tags Payments
// @Produce json
// @Security Bearer
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response{data=[]models.Payment}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id}/payments [get]
func (h *Handler) ListByBooking(c *gin.Context) {
	id, ok := handler.ParseID(c, "Booking")
	if !ok {
		return
	}
	payments, err := h.paymentService.ListByBooking(c.Request.Context(), bookingHandler.CallerFrom(c), id)
	handler.MustSucceed(c, err, payments)
}
