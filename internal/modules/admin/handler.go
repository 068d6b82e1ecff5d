package admin

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"viewminder/internal/domain"
	"viewminder/internal/pkg/response"
	"viewminder/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	auth    *Authenticator
	log     *zap.Logger
}

func NewHandler(service *Service, auth *Authenticator, log *zap.Logger) *Handler {
	return &Handler{service: service, auth: auth, log: log}
}

// RegisterPublicRoutes mounts the login endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
}

// RegisterRoutes mounts booking administration. admin must already carry the
// session middleware.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings", h.ListBookings)
	admin.GET("/bookings/:id", h.GetBooking)
	admin.PATCH("/bookings/:id/status", h.UpdateStatus)
	admin.POST("/bookings/:id/files", h.AttachFiles)
	admin.DELETE("/bookings/:id/files/:index", h.DetachFile)
	admin.PUT("/bookings/:id/report", h.AttachReport)
}

// Login godoc
// @Summary      Admin login
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        body body LoginRequest true "Operator password"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} map[string]interface{}
// @Router       /admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "password is required")
		return
	}

	resp, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			h.log.Warn("admin login rejected", zap.String("client_ip", c.ClientIP()))
			response.Error(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Incorrect password. Please try again.")
			return
		}
		h.log.Error("admin login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ListBookings godoc
// @Summary      List bookings
// @Tags         Admin
// @Security     BearerAuth
// @Param        status query string false "assigned|completed|cancelled|all"
// @Param        q      query string false "Search id, name, email, suburb"
// @Success      200 {object} ListResponse
// @Router       /admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), ListFilter{Status: c.Query("status"), Query: c.Query("q")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// UpdateStatus godoc
// @Summary      Set booking status
// @Tags         Admin
// @Security     BearerAuth
// @Param        id   path string true "Booking id"
// @Param        body body UpdateStatusRequest true "New status"
// @Success      200 {object} domain.Booking
// @Router       /admin/bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrInvalidStatus.Error())
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// AttachFiles godoc
// @Summary      Upload booking artifacts
// @Tags         Admin
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Param        id    path     string true "Booking id"
// @Param        files formData file   true "One or more files"
// @Success      200 {object} domain.Booking
// @Router       /admin/bookings/{id}/files [post]
func (h *Handler) AttachFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "multipart form with 'files' is required")
		return
	}

	headers := form.File["files"]
	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, Upload{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	bookingID := c.Param("id")
	b, err := h.service.AttachFiles(c.Request.Context(), bookingID, uploads, func(name string, written, total int64) {
		if written == total {
			h.log.Debug("upload stored", zap.String("booking_id", bookingID), zap.String("name", name), zap.Int64("bytes", written))
		}
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) DetachFile(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INDEX", "file index must be a number")
		return
	}

	b, err := h.service.DetachFile(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// AttachReport godoc
// @Summary      Attach inspection report
// @Tags         Admin
// @Security     BearerAuth
// @Param        id   path string true "Booking id"
// @Param        body body AttachReportRequest true "15-point checklist"
// @Success      200 {object} domain.Booking
// @Router       /admin/bookings/{id}/report [put]
func (h *Handler) AttachReport(c *gin.Context) {
	var req AttachReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	b, err := h.service.AttachReport(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", ErrBookingNotFound.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_STATUS", err.Error(), gin.H{"allowed": domain.AdminStatuses})
	case errors.Is(err, ErrNoFiles), errors.Is(err, storage.ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrFileIndex):
		response.Error(c, http.StatusNotFound, "FILE_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidReport):
		response.Error(c, http.StatusBadRequest, "INVALID_REPORT", err.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.Error(c, http.StatusUnsupportedMediaType, "INVALID_FILE_TYPE", err.Error())
	default:
		h.log.Error("admin request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}
