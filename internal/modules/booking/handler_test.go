package booking

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"viewminder/internal/middleware"
	"viewminder/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(store bookingStore, token string) *gin.Engine {
	r := gin.New()
	NewHandler(NewService(store, zap.NewNop(), metrics.NewNop())).
		RegisterRoutes(r.Group("/api"), middleware.InternalTokenAuth(token, zap.NewNop()))
	return r
}

func postJSON(r http.Handler, body string, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/save-booking", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_SaveBooking(t *testing.T) {
	store := new(MockStore)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	w := postJSON(newRouter(store, ""), `{"bookingId":"B1","customerEmail":"a@b.com","price":"49"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Booking saved","bookingId":"B1","path":"/artifacts/viewminder/public/data/jobs/B1"}`, w.Body.String())
}

func TestHandler_MissingBookingID(t *testing.T) {
	w := postJSON(newRouter(new(MockStore), ""), `{"customerEmail":"a@b.com"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing bookingId"}`, w.Body.String())
}

func TestHandler_StoreFailure(t *testing.T) {
	store := new(MockStore)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("permission denied"))

	w := postJSON(newRouter(store, ""), `{"bookingId":"B1"}`, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to save booking")
	assert.Contains(t, w.Body.String(), "permission denied")
}

func TestHandler_TokenGuard(t *testing.T) {
	store := new(MockStore)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)
	r := newRouter(store, "zap-secret")

	assert.Equal(t, http.StatusUnauthorized, postJSON(r, `{"bookingId":"B1"}`, "").Code)
	assert.Equal(t, http.StatusOK, postJSON(r, `{"bookingId":"B1"}`, "Bearer zap-secret").Code)
}
