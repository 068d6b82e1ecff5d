package booking

import (
	"errors"
	"net/http"

	"viewminder/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts save-booking. guard runs before the handler, e.g. the
// internal token check.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, guard...), h.SaveBooking)
	rg.POST("/save-booking", handlers...)
}

// SaveBooking godoc
// @Summary      Persist a paid booking
// @Description  Called by the payment relay or an automation tool once payment succeeds
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        body body SaveBookingRequest true "Booking"
// @Success      200 {object} SaveBookingResponse
// @Router       /save-booking [post]
func (h *Handler) SaveBooking(c *gin.Context) {
	var req SaveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Flat(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.service.Persist(c.Request.Context(), req, SourceAPI)
	if err != nil {
		if errors.Is(err, ErrMissingBookingID) {
			response.Flat(c, http.StatusBadRequest, ErrMissingBookingID.Error(), "")
			return
		}
		response.Flat(c, http.StatusInternalServerError, "Failed to save booking", err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}
