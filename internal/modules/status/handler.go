package status

import (
	"context"
	"errors"
	"net/http"

	"viewminder/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds the status routes. allowedOrigins limits websocket
// upgrades; an empty list accepts any origin.
func NewHandler(service *Service, hub *Hub, allowedOrigins []string, log *zap.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		service: service,
		hub:     hub,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/status")
	g.POST("/lookup", h.Lookup)
	g.GET("/ws", h.Stream)
}

// Lookup godoc
// @Summary      Look up booking status
// @Tags         Status
// @Accept       json
// @Produce      json
// @Param        body body LookupRequest true "Booking id and email"
// @Success      200 {object} View
// @Router       /status/lookup [post]
func (h *Handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrInvalidRequest.Error())
		return
	}

	view, err := h.service.Lookup(c.Request.Context(), req.BookingID, req.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Stream godoc
// @Summary      Live booking status
// @Description  Websocket pushing {type:"status", payload: View} on every change
// @Tags         Status
// @Param        bookingId query string true "Booking id"
// @Param        email     query string true "Customer email"
// @Router       /status/ws [get]
func (h *Handler) Stream(c *gin.Context) {
	bookingID, email := c.Query("bookingId"), c.Query("email")

	// reject before upgrading so plain HTTP clients get a proper status code.
	// Subscribe counts the accepted lookup, so only rejections are observed here.
	if _, err := h.service.resolve(c.Request.Context(), bookingID, email); err != nil {
		h.service.observeLookup(err)
		h.writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("status websocket upgrade failed", zap.Error(err))
		return
	}

	client := newConnection(conn, bookingID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := h.service.Subscribe(ctx, bookingID, email, func(v *View) {
		client.push(&Event{Type: EventStatus, Payload: v})
	})
	if err != nil {
		client.push(&Event{Type: EventError, Error: err.Error()})
		client.closeSend()
		h.hub.serve(client)
		return
	}
	defer sub.Cancel()

	h.hub.serve(client)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error())
	default:
		h.log.Error("status lookup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to look up booking")
	}
}
