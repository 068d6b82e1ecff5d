package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps webhook payloads; Stripe events are well below this.
const maxBodyBytes = int64(65536)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook", h.Webhook)
}

// Webhook godoc
// @Summary      Payment processor webhook
// @Description  Verifies the Stripe-Signature header over the raw body and relays the event
// @Tags         Payments
// @Produce      json
// @Success      200 {object} WebhookResponse
// @Failure      400 {string} string "Webhook Error"
// @Router       /webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: "+ErrPayloadTooLarge.Error())
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), rawBody, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
			return
		}
		c.String(http.StatusInternalServerError, "Webhook Error")
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{Received: true})
}
