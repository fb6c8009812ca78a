package listing

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	listingService "github.com/rentalhub/marketplace-backend/internal/service/listing"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// ListVehicles lists vehicles
// @Summary List vehicles
// @Tags Vehicles
// @Produce json
// @Param purpose query string false "rent, buy or both"
// @Param status query string false "available, rented, sold or maintenance"
// @Param make query string false "Make"
// @Success 200 {object} response.Response{data=[]models.Vehicle}
// @Router /vehicles [get]
func (h *Handler) ListVehicles(c *gin.Context) {
	filter := repository.VehicleFilter{
		Purpose: c.Query("purpose"),
		Status:  c.Query("status"),
		Make:    c.Query("make"),
	}
	items, err := h.listingService.ListVehicles(c.Request.Context(), filter)
	handler.MustSucceed(c, err, items)
}

// GetVehicle vehicle detail
// @Summary Get a vehicle
// @Tags Vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Response{data=models.Vehicle}
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [get]
func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := handler.ParseID(c, "Vehicle")
	if !ok {
		return
	}
	item, err := h.listingService.GetVehicle(c.Request.Context(), id)
	handler.MustSucceed(c, err, item)
}

// CreateVehicle creates a vehicle with up to five images
// @Summary Create a vehicle
// @Tags Vehicles
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param purpose formData string true "rent, buy or both"
// @Param make formData string true "Make"
// @Param model formData string true "Model"
// @Param year formData int false "Year"
// @Param daily_rate formData number false "Daily rate"
// @Param sale_price formData number false "Sale price"
// @Param images formData file false "Images (max 5)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /vehicles [post]
func (h *Handler) CreateVehicle(c *gin.Context) {
	var in listingService.VehicleInput
	if !handler.BindForm(c, &in) {
		return
	}
	item, err := h.listingService.CreateVehicle(c.Request.Context(), &in, handler.FormFiles(c, upload.FieldImages))
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Vehicle created", gin.H{"id": item.ID})
}

// UpdateVehicle updates the given fields; new images replace the old ones
// @Summary Update a vehicle
// @Tags Vehicles
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "Vehicle ID"
// @Param images formData file false "Images (max 5)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [patch]
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := handler.ParseID(c, "Vehicle")
	if !ok {
		return
	}
	var in listingService.VehicleInput
	if !handler.BindForm(c, &in) {
		return
	}
	err := h.listingService.UpdateVehicle(c.Request.Context(), id, &in, handler.FormFiles(c, upload.FieldImages))
	handler.MustSucceedWithMessage(c, err, "Vehicle updated", nil)
}

// DeleteVehicle deletes a vehicle and its images
// @Summary Delete a vehicle
// @Tags Vehicles
// @Produce json
// @Security Bearer
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [delete]
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := handler.ParseID(c, "Vehicle")
	if !ok {
		return
	}
	err := h.listingService.DeleteVehicle(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "Vehicle deleted", nil)
}
