// Package listing provides the accommodation and vehicle HTTP handlers.
package listing

import (
	"github.com/gin-gonic/gin"

	"github.com/rentalhub/marketplace-backend/internal/common/handler"
	"github.com/rentalhub/marketplace-backend/internal/common/response"
	"github.com/rentalhub/marketplace-backend/internal/repository"
	listingService "github.com/rentalhub/marketplace-backend/internal/service/listing"
	"github.com/rentalhub/marketplace-backend/internal/service/upload"
)

// Handler listing handler
type Handler struct {
	listingService *listingService.ListingService
}

// NewHandler creates a listing handler
func NewHandler(listingSvc *listingService.ListingService) *Handler {
	return &Handler{listingService: listingSvc}
}

// ListAccommodations lists accommodations
// @Summary List accommodations
// @Description Exact-match filters; omitted filters are ignored
// @Tags Accommodations
// @Produce json
// @Param type query string false "apartment, hotel_room or event_hall"
// @Param city query string false "City"
// @Param district query string false "District"
// @Param status query string false "available, unavailable or maintenance"
// @Success 200 {object} response.Response{data=[]models.Accommodation}
// @Router /accommodations [get]
func (h *Handler) ListAccommodations(c *gin.Context) {
	filter := repository.AccommodationFilter{
		Type:     c.Query("type"),
		City:     c.Query("city"),
		District: c.Query("district"),
		Status:   c.Query("status"),
	}
	items, err := h.listingService.ListAccommodations(c.Request.Context(), filter)
	handler.MustSucceed(c, err, items)
}

// GetAccommodation accommodation detail
// @Summary Get an accommodation
// @Tags Accommodations
// @Produce json
// @Param id path string true "Accommodation ID"
// @Success 200 {object} response.Response{data=models.Accommodation}
// @Failure 404 {object} response.Response
// @Router /accommodations/{id} [get]
func (h *Handler) GetAccommodation(c *gin.Context) {
	id, ok := handler.ParseID(c, "Accommodation")
	if !ok {
		return
	}
	item, err := h.listingService.GetAccommodation(c.Request.Context(), id)
	handler.MustSucceed(c, err, item)
}

// CreateAccommodation creates an accommodation with up to five images
// @Summary Create an accommodation
// @Tags Accommodations
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param type formData string true "Type"
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param city formData string false "City"
// @Param district formData string false "District"
// @Param price_per_night formData number false "Price per night"
// @Param price_per_event formData number false "Price per event"
// @Param images formData file false "Images (max 5)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /accommodations [post]
func (h *Handler) CreateAccommodation(c *gin.Context) {
	var in listingService.AccommodationInput
	if !handler.BindForm(c, &in) {
		return
	}
	item, err := h.listingService.CreateAccommodation(c.Request.Context(), &in, handler.FormFiles(c, upload.FieldImages))
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, "Accommodation created", gin.H{"id": item.ID})
}

// UpdateAccommodation updates the given fields; new images replace the old ones
// @Summary Update an accommodation
// @Tags Accommodations
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "Accommodation ID"
// @Param images formData file false "Images (max 5)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accommodations/{id} [patch]
func (h *Handler) UpdateAccommodation(c *gin.Context) {
	id, ok := handler.ParseID(c, "Accommodation")
	if !ok {
		return
	}
	var in listingService.AccommodationInput
	if !handler.BindForm(c, &in) {
		return
	}
	err := h.listingService.UpdateAccommodation(c.Request.Context(), id, &in, handler.FormFiles(c, upload.FieldImages))
	handler.MustSucceedWithMessage(c, err, "Accommodation updated", nil)
}

// DeleteAccommodation deletes an accommodation and its images
// @Summary Delete an accommodation
// @Tags Accommodations
// @Produce json
// @Security Bearer
// @Param id path string true "Accommodation ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accommodations/{id} [delete]
func (h *Handler) DeleteAccommodation(c *gin.Context) {
	id, ok := handler.ParseID(c, "Accommodation")
	if !ok {
		return
	}
	err := h.listingService.DeleteAccommodation(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "Accommodation deleted", nil)
}
