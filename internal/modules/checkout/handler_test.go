package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(sessions SessionCreator) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	NewHandler(newTestService(sessions)).RegisterRoutes(r.Group("/api"))
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateSession(t *testing.T) {
	body, _ := json.Marshal(validRequest())
	w := post(newRouter(&fakeSessions{}), string(body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_123", resp.SessionID)
	assert.Equal(t, "VM-0A1B2C3D", resp.BookingID)
	assert.NotEmpty(t, resp.URL)
}

func TestHandler_MissingFields(t *testing.T) {
	fake := &fakeSessions{}
	w := post(newRouter(fake), `{"customerEmail":"a@b.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required fields")
	assert.Empty(t, fake.calls)
}

func TestHandler_MalformedJSON(t *testing.T) {
	w := post(newRouter(&fakeSessions{}), `{"price":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ProcessorError(t *testing.T) {
	body, _ := json.Marshal(validRequest())
	w := post(newRouter(&fakeSessions{err: errors.New("card_declined")}), string(body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"card_declined"}`, w.Body.String())
}

func TestHandler_WrongMethod(t *testing.T) {
	r := newRouter(&fakeSessions{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/create-checkout-session", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
