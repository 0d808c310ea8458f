// internal/simulator/client.go
package simulator

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"perimeter-monitor/pkg/events"
)

// DeliveryError reports a non-2xx answer from the backend
type DeliveryError struct {
	StatusCode int
	Message    string
}

func (e *DeliveryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected event: status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend rejected event: status %d: %s", e.StatusCode, e.Message)
}

// backendEnvelope is the subset of the backend response the simulator reads
type backendEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *events.Event `json:"data"`
}

// Client posts events to the backend REST API
type Client struct {
	httpClient *resty.Client
	healthURL  string
	logger     *zap.Logger
}

// NewClient creates a backend client. baseURL is the versioned API root,
// e.g. http://localhost:5000/api/v1.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		healthURL:  healthURL(baseURL),
		logger:     logger,
	}
}

// healthURL maps the API root onto the backend's /health endpoint
func healthURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "/health"
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String()
}

// Deliver posts one event and returns the stored copy
func (c *Client) Deliver(ctx context.Context, event events.Event) (*events.Event, error) {
	var result backendEnvelope
	var failure backendEnvelope

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		SetResult(&result).
		SetError(&failure).
		Post("/events")
	if err != nil {
		return nil, fmt.Errorf("failed to deliver event: %w", err)
	}

	if resp.IsError() {
		c.logger.Warn("Backend rejected event",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", failure.Message),
			zap.String("sensor_id", event.SensorID),
		)
		return nil, &DeliveryError{StatusCode: resp.StatusCode(), Message: failure.Message}
	}

	if result.Data == nil {
		return nil, &DeliveryError{StatusCode: resp.StatusCode(), Message: "response carried no event"}
	}
	return result.Data, nil
}

// Ping checks that the backend answers its health endpoint
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.healthURL)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	if resp.IsError() {
		return &DeliveryError{StatusCode: resp.StatusCode(), Message: "health check failed"}
	}
	return nil
}
