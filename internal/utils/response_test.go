package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListResponse_EmptyIsArray(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ListResponse[string](c, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, []any{}, body["data"])
	require.Equal(t, float64(0), body["count"])
	require.NotEmpty(t, body["timestamp"])
}

func TestNotFoundResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(RequestIDKey, "req-1")

	NotFoundResponse(c, "Event not found")

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Event not found", body["message"])
	require.Equal(t, "req-1", body["request_id"])
	require.NotContains(t, body, "data")
}

func TestErrorResponse_Codes(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, http.StatusBadGateway, "Delivery failed", errors.New("backend returned 500"))

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	apiErr := body["error"].(map[string]any)
	require.Equal(t, "BAD_GATEWAY", apiErr["code"])
	require.Equal(t, "backend returned 500", apiErr["details"])
}

func TestValidationErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ValidationErrorResponse(c, map[string]string{"eventType": "must be one of human, vehicle, animal, noise"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	data := body["data"].(map[string]any)
	require.Contains(t, data["validation_errors"], "eventType")
}
