package checkout

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create-checkout-session", h.CreateSession)
}

// CreateSession godoc
// @Summary      Create checkout session
// @Description  Starts a hosted card checkout for one inspection booking
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        body body CreateSessionRequest true "Booking form"
// @Success      200 {object} CreateSessionResponse
// @Router       /create-checkout-session [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Flat(c, http.StatusBadRequest, ErrValidation.Error(), err.Error())
		return
	}

	resp, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrValidation.Error(), "fields": verr.Fields})
		default:
			response.Flat(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
