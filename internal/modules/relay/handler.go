package relay

import (
	"errors"
	"net/http"

	"viewminder/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send-webhook", h.Send)
}

// Send godoc
// @Summary      Relay a payload to an automation webhook
// @Tags         Relay
// @Accept       json
// @Produce      json
// @Param        body body SendRequest true "Target URL and payload"
// @Success      200 {object} SendResponse
// @Router       /send-webhook [post]
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Flat(c, http.StatusBadRequest, ErrMissingFields.Error(), "")
		return
	}

	if err := h.service.Send(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrHostNotAllowed):
			response.Flat(c, http.StatusBadRequest, err.Error(), "")
		default:
			h.service.log.Error("webhook relay failed", zap.Error(err))
			response.Flat(c, http.StatusInternalServerError, "Failed to send webhook", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, SendResponse{Success: true, Message: "Webhook sent successfully"})
}
