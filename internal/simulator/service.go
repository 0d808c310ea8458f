// internal/simulator/service.go
package simulator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"perimeter-monitor/internal/metrics"
	"perimeter-monitor/internal/utils"
	"perimeter-monitor/pkg/analytics"
	"perimeter-monitor/pkg/events"
)

// Deliverer hands a generated event to the backend
type Deliverer interface {
	Deliver(ctx context.Context, event events.Event) (*events.Event, error)
}

// State is the externally visible simulator status
type State struct {
	IsRunning            bool            `json:"isRunning"`
	TotalEventsGenerated int64           `json:"totalEventsGenerated"`
	LastEventTime        *time.Time      `json:"lastEventTime"`
	Sensors              []events.Sensor `json:"sensors"`
	IntervalMS           int64           `json:"intervalMs"`
	BackendURL           string          `json:"backendUrl"`
}

// Service couples the generator, the scheduler and the delivery client
type Service struct {
	generator  *Generator
	deliverer  Deliverer
	scheduler  *Scheduler
	timeout    time.Duration
	backendURL string
	now        func() time.Time

	mu            sync.Mutex
	total         int64
	lastEventTime *time.Time
	sensors       []events.Sensor

	logger      *utils.ServiceLogger
	auditLogger *utils.AuditLogger
}

// NewService creates a stopped simulation service
func NewService(
	generator *Generator,
	deliverer Deliverer,
	sensors []events.Sensor,
	interval, timeout time.Duration,
	backendURL string,
	logger *zap.Logger,
) *Service {
	s := &Service{
		generator:   generator,
		deliverer:   deliverer,
		timeout:     timeout,
		backendURL:  backendURL,
		now:         time.Now,
		sensors:     append([]events.Sensor(nil), sensors...),
		logger:      utils.NewServiceLogger(logger, "simulation-service"),
		auditLogger: utils.NewAuditLogger(logger),
	}
	s.scheduler = NewScheduler(interval, s.runOnce)
	return s
}

// Start begins periodic generation; false when already running
func (s *Service) Start() bool {
	changed := s.scheduler.Start()
	s.auditLogger.LogSimulatorTransition(string(StateStopped), string(StateRunning), changed)
	if changed {
		metrics.SetSimulatorRunning(true)
		s.logger.Info("Simulation started", zap.Duration("interval", s.scheduler.Period()))
	} else {
		s.logger.Warn("Simulation already running")
	}
	return changed
}

// Stop halts periodic generation; false when already stopped
func (s *Service) Stop() bool {
	changed := s.scheduler.Stop()
	s.auditLogger.LogSimulatorTransition(string(StateRunning), string(StateStopped), changed)
	if changed {
		metrics.SetSimulatorRunning(false)
		s.logger.Info("Simulation stopped")
	} else {
		s.logger.Warn("Simulation already stopped")
	}
	return changed
}

// State returns a snapshot of the simulator status
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	sensors := make([]events.Sensor, len(s.sensors))
	copy(sensors, s.sensors)
	for i := range sensors {
		if sensors[i].LastDetection != nil {
			t := *sensors[i].LastDetection
			sensors[i].LastDetection = &t
		}
	}

	var last *time.Time
	if s.lastEventTime != nil {
		t := *s.lastEventTime
		last = &t
	}

	return State{
		IsRunning:            s.scheduler.Running(),
		TotalEventsGenerated: s.total,
		LastEventTime:        last,
		Sensors:              sensors,
		IntervalMS:           s.scheduler.Period().Milliseconds(),
		BackendURL:           s.backendURL,
	}
}

// Trigger generates one event with the given type and risk and delivers it
// synchronously. Enum values are validated before anything is sent.
func (s *Service) Trigger(ctx context.Context, eventType, riskLevel, sensorID string) (*events.Event, error) {
	verr := &analytics.ValidationError{}
	t, err := events.ParseEventType(eventType)
	if strings.TrimSpace(eventType) == "" {
		verr.Add("eventType", "eventType is required")
	} else if err != nil {
		verr.Add("eventType", err.Error())
	}
	r, err := events.ParseRiskLevel(riskLevel)
	if strings.TrimSpace(riskLevel) == "" {
		verr.Add("riskLevel", "riskLevel is required")
	} else if err != nil {
		verr.Add("riskLevel", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	event := s.generator.Specific(t, r, strings.TrimSpace(sensorID), s.now())
	return s.deliver(ctx, event)
}

// runOnce is the scheduled task; failures are logged and dropped
func (s *Service) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	event := s.generator.Random(s.now())
	if _, err := s.deliver(ctx, event); err != nil {
		s.logger.Error("Failed to deliver simulated event",
			zap.Error(err),
			zap.String("sensor_id", event.SensorID),
			zap.String("event_type", string(event.EventType)),
		)
	}
}

func (s *Service) deliver(ctx context.Context, event events.Event) (*events.Event, error) {
	start := time.Now()
	stored, err := s.deliverer.Deliver(ctx, event)
	if err != nil {
		metrics.ObserveDelivery(metrics.OutcomeFailed, time.Since(start))
		return nil, fmt.Errorf("deliver %s event from %s: %w", event.EventType, event.SensorID, err)
	}
	metrics.ObserveDelivery(metrics.OutcomeDelivered, time.Since(start))

	s.recordDelivery(event)
	s.logger.Info("Simulated event delivered",
		zap.String("event_id", stored.ID),
		zap.String("sensor_id", stored.SensorID),
		zap.String("event_type", string(stored.EventType)),
		zap.String("risk_level", string(stored.RiskLevel)),
	)
	return stored, nil
}

func (s *Service) recordDelivery(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	ts := event.Timestamp
	s.lastEventTime = &ts
	for i := range s.sensors {
		if s.sensors[i].ID == event.SensorID {
			detected := ts
			s.sensors[i].LastDetection = &detected
			break
		}
	}
}
