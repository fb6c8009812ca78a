package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	commissionService "github.com/rentalhub/marketplace-backend/internal/service/commission"
	paymentService "github.com/rentalhub/marketplace-backend/internal/service/payment"
)

// FinanceHandler commissions and payments
type FinanceHandler struct {
	commissionService *commissionService.CommissionService
	paymentService    *paymentService.PaymentService
}

// NewFinanceHandler creates a FinanceHandler
func NewFinanceHandler(
	commissionSvc *commissionService.CommissionService,
	paymentSvc *paymentService.PaymentService,
) *FinanceHandler {
	return &FinanceHandler{
		commissionService: commissionSvc,
		paymentService:    paymentSvc,
	}
}

// ListCommissions lists commissions newest first
// @Summary List commissions
// @Tags Admin-Finance
// @Produce json
// @Security Bearer
// @Param status query string false "pending, approved, paid or cancelled"
// @Success 200 {object} response.Response{data=[]models.Commission}
// @Router /admin/commissions [get]
func (h *FinanceHandler) ListCommissions(c *gin.Context) {
	items, err := h.commissionService.List(c.Request.Context(), c.Query("status"))
	handler.MustSucceed(c, err, items)
}

// CreateCommission records a commission for an agent's booking
// @Summary Create a commission
// @Tags Admin-Finance
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body commissionService.CreateRequest true "Commission"
// @Success 201 {object} response.Response{data=models.Commission}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/commissions [post]
func (h *FinanceHandler) CreateCommission(c *gin.Context) {
	var req commissionService.CreateRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	commission, err := h.commissionService.Create(c.Request.Context(), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Commission created", commission)
}

// UpdateCommissionStatus moves a commission along its lifecycle
// @Summary Update commission status
// @Tags Admin-Finance
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Commission ID"
// @Param request body commissionService.UpdateStatusRequest true "Status"
// @Success 200 {object} response.Response{data=models.Commission}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/commissions/{id}/status [patch]
func (h *FinanceHandler) UpdateCommissionStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "Commission")
	if !ok {
		return
	}
	var req commissionService.UpdateStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	commission, err := h.commissionService.UpdateStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceedWithMessage(c, err, "Commission status updated", commission)
}

// UpdatePaymentStatus moves a payment along its lifecycle
// @Summary Update payment status
// @Tags Admin-Finance
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Payment ID"
// @Param request body paymentService.UpdateStatusRequest true "Status"
// @Success 200 {object} response.Response{data=models.Payment}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/payments/{id}/status [patch]
func (h *FinanceHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "Payment")
	if !ok {
		return
	}
	var req paymentService.UpdateStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceedWithMessage(c, err, "Payment status updated", payment)
}
