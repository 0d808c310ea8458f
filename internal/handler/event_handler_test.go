package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"perimeter-monitor/internal/config"
	"perimeter-monitor/internal/middleware"
	"perimeter-monitor/internal/repository"
	"perimeter-monitor/internal/service"
)

type testBackend struct {
	engine    *gin.Engine
	events    *service.EventService
	websocket *WebSocketHandler
	health    *HealthHandler
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bus := NewEventBus("test-backend", zap.NewNop())
	go bus.Run(ctx)

	eventService := service.NewEventService(repository.NewEventRepository(zap.NewNop()), bus, time.UTC, zap.NewNop())
	wsHandler := NewWebSocketHandler(eventService, nil, zap.NewNop())
	wsHandler.Forward(ctx, bus)

	cfg := &config.Config{App: config.AppConfig{Name: "perimeter-backend", Version: "v1", Environment: "test"}}
	healthHandler := NewHealthHandler(cfg, zap.NewNop())

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	healthHandler.RegisterRoutes(&r.RouterGroup)
	NewEventHandler(eventService, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	wsHandler.RegisterRoutes(r.Group("/ws"))

	return &testBackend{engine: r, events: eventService, websocket: wsHandler, health: healthHandler}
}

func (b *testBackend) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	b.engine.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w, decoded
}

func TestEventHandler_CreateThenGet(t *testing.T) {
	b := newTestBackend(t)

	w, body := b.do(t, http.MethodPost, "/api/v1/events", map[string]any{
		"sensorId":  "SENSOR_001",
		"eventType": "vehicle",
		"riskLevel": "high",
		"zone":      "North Entrance Gate",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, body["success"])
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "Dispatch security patrol immediately + activate cameras", created["suggestedAction"])

	w, body = b.do(t, http.MethodGet, "/api/v1/events/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, id, body["data"].(map[string]any)["id"])
}

func TestEventHandler_CreateRejectsBadInput(t *testing.T) {
	b := newTestBackend(t)

	w, body := b.do(t, http.MethodPost, "/api/v1/events", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, false, body["success"])

	w, body = b.do(t, http.MethodPost, "/api/v1/events", map[string]any{"eventType": "drone", "riskLevel": "high"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	validation := body["data"].(map[string]any)["validation_errors"].(map[string]any)
	require.Contains(t, validation, "eventType")

	count, err := b.events.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestEventHandler_CreateBackfillsMissingEnums(t *testing.T) {
	b := newTestBackend(t)

	w, body := b.do(t, http.MethodPost, "/api/v1/events", map[string]any{"sensorId": "SENSOR_002"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := body["data"].(map[string]any)
	require.Equal(t, "noise", created["eventType"])
	require.Equal(t, "low", created["riskLevel"])
	require.Equal(t, "Continuous monitoring only", created["suggestedAction"])
}

func TestEventHandler_Statistics(t *testing.T) {
	b := newTestBackend(t)
	for _, risk := range []string{"high", "high", "medium"} {
		w, _ := b.do(t, http.MethodPost, "/api/v1/events", map[string]any{"sensorId": "SENSOR_002", "eventType": "human", "riskLevel": risk})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := b.do(t, http.MethodGet, "/api/v1/events/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["data"].(map[string]any)
	require.Equal(t, float64(3), stats["totalEvents"])
	require.Equal(t, float64(2), stats["highRiskEvents"])
	require.Equal(t, float64(1), stats["mediumRiskEvents"])
	require.Equal(t, float64(0), stats["lowRiskEvents"])

	w, body = b.do(t, http.MethodGet, "/api/v1/events/stats?riskLevel=medium", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), body["data"].(map[string]any)["totalEvents"])
}

func TestEventHandler_ListFiltersAndPages(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.events.SeedSampleEvents(context.Background())
	require.NoError(t, err)

	w, body := b.do(t, http.MethodGet, "/api/v1/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(18), body["count"])

	w, body = b.do(t, http.MethodGet, "/api/v1/events?riskLevel=high&eventType=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(6), body["count"])
	for _, item := range body["data"].([]any) {
		require.Equal(t, "high", item.(map[string]any)["riskLevel"])
	}

	w, body = b.do(t, http.MethodGet, "/api/v1/events?limit=5&offset=15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(3), body["count"])

	w, body = b.do(t, http.MethodGet, "/api/v1/events?limit=9223372036854775807&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(17), body["count"])

	w, body = b.do(t, http.MethodGet, "/api/v1/events?q=zzz-no-match", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []any{}, body["data"])
}

func TestEventHandler_ListRejectsInvalidParams(t *testing.T) {
	b := newTestBackend(t)

	for _, query := range []string{"riskLevel=critical", "eventType=drone", "timeRange=3d", "limit=-1", "offset=abc"} {
		t.Run(query, func(t *testing.T) {
			w, body := b.do(t, http.MethodGet, "/api/v1/events?"+query, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, false, body["success"])
		})
	}
}

func TestEventHandler_NotFound(t *testing.T) {
	b := newTestBackend(t)

	w, body := b.do(t, http.MethodGet, "/api/v1/events/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Event not found", body["message"])
	require.NotEmpty(t, body["timestamp"])
}

func TestEventHandler_ClearTwice(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.events.SeedSampleEvents(context.Background())
	require.NoError(t, err)

	w, body := b.do(t, http.MethodDelete, "/api/v1/events/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(18), body["data"].(map[string]any)["removed"])

	w, body = b.do(t, http.MethodDelete, "/api/v1/events/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(0), body["data"].(map[string]any)["removed"])

	_, body = b.do(t, http.MethodGet, "/api/v1/events", nil)
	require.Equal(t, float64(0), body["count"])
}

func TestEventHandler_TimelineTrendsCatalog(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.events.SeedSampleEvents(context.Background())
	require.NoError(t, err)

	w, body := b.do(t, http.MethodGet, "/api/v1/events/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["data"], 7)

	w, body = b.do(t, http.MethodGet, "/api/v1/events/trends", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body["data"], "highRiskRate")

	w, body = b.do(t, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := body["data"].(map[string]any)
	require.Len(t, catalog["sensors"], 8)
	require.Len(t, catalog["eventTypes"], 4)
}

func TestHealthHandler_Checks(t *testing.T) {
	b := newTestBackend(t)
	b.health.AddCheck("event_store", func(ctx context.Context) (map[string]interface{}, error) {
		n, err := b.events.Count(ctx)
		return map[string]interface{}{"events": n}, err
	})

	w, body := b.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "perimeter-backend", body["service"])
	require.Equal(t, "test", body["environment"])
	require.Contains(t, body["checks"], "event_store")

	w, _ = b.do(t, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)

	b.health.AddCheck("backend", func(ctx context.Context) (map[string]interface{}, error) {
		return nil, errors.New("connection refused")
	})
	w, body = b.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "unhealthy", body["status"])

	w, body = b.do(t, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "backend unavailable", body["reason"])

	w, _ = b.do(t, http.MethodGet, "/live", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWebSocket_StreamsStoreChanges(t *testing.T) {
	b := newTestBackend(t)
	server := httptest.NewServer(b.engine)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() WebSocketMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var msg WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	require.Equal(t, "snapshot", read().Type)
	require.Eventually(t, func() bool {
		return b.websocket.GetConnectionStats().TotalConnections == 1
	}, time.Second, 10*time.Millisecond)

	resp, err := http.Post(server.URL+"/api/v1/events", "application/json",
		strings.NewReader(`{"sensorId":"SENSOR_003","eventType":"animal","riskLevel":"low"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	msg := read()
	require.Equal(t, TopicEventCreated, msg.Type)
	require.Equal(t, "SENSOR_003", msg.Data.(map[string]any)["sensorId"])

	require.NoError(t, conn.WriteJSON(WebSocketMessage{Type: "ping"}))
	require.Equal(t, "pong", read().Type)

	require.NoError(t, conn.WriteJSON(WebSocketMessage{Type: "unsubscribe", Data: map[string]string{"topic": TopicEventCreated}}))
	require.Equal(t, "unsubscribed", read().Type)

	_, err = b.events.CreateEvent(context.Background(), &service.CreateEventRequest{EventType: "noise", RiskLevel: "low"})
	require.NoError(t, err)
	_, err = b.events.ClearEvents(context.Background(), "127.0.0.1")
	require.NoError(t, err)

	msg = read()
	require.Equal(t, TopicEventsCleared, msg.Type)
	require.Equal(t, float64(2), msg.Data.(map[string]any)["removed"])
}
