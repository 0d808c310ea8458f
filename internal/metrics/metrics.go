// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	eventsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perimeter_events_created_total",
			Help: "Detection events accepted by the store.",
		},
		[]string{"event_type", "risk_level"},
	)
	storeSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "perimeter_event_store_size",
			Help: "Number of events currently held in memory.",
		},
	)
	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perimeter_simulator_deliveries_total",
			Help: "Simulated events posted to the backend by outcome.",
		},
		[]string{"outcome"},
	)
	deliveryLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "perimeter_simulator_delivery_seconds",
			Help:    "Latency of simulated event delivery.",
			Buckets: prometheus.DefBuckets,
		},
	)
	simulatorRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "perimeter_simulator_running",
			Help: "1 while the simulator schedule is active.",
		},
	)
	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "perimeter_websocket_clients",
			Help: "Connected live event stream clients.",
		},
	)

	registerOnce sync.Once
)

// Register adds every collector to the default registry; repeated calls are no-ops
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpLatency,
			eventsCreated, storeSize,
			deliveries, deliveryLatency, simulatorRunning,
			wsClients,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request. path should be the route template.
func ObserveHTTP(method, path, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpLatency.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func IncEventCreated(eventType, riskLevel string) {
	eventsCreated.WithLabelValues(eventType, riskLevel).Inc()
}

func SetStoreSize(n int) {
	storeSize.Set(float64(n))
}

// Delivery outcomes
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

func ObserveDelivery(outcome string, d time.Duration) {
	deliveries.WithLabelValues(outcome).Inc()
	deliveryLatency.Observe(d.Seconds())
}

func SetSimulatorRunning(running bool) {
	if running {
		simulatorRunning.Set(1)
		return
	}
	simulatorRunning.Set(0)
}

func SetWebSocketClients(n int) {
	wsClients.Set(float64(n))
}
