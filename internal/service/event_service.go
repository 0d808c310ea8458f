// internal/service/event_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"perimeter-monitor/internal/metrics"
	"perimeter-monitor/internal/repository"
	"perimeter-monitor/internal/utils"
	"perimeter-monitor/pkg/analytics"
	"perimeter-monitor/pkg/events"
)

// Notifier is told about every change to the event store
type Notifier interface {
	EventCreated(event events.Event)
	EventsCleared(removed int)
}

// EventService handles detection event business logic
type EventService struct {
	repo        repository.EventRepository
	notifier    Notifier
	sensors     []events.Sensor
	loc         *time.Location
	now         func() time.Time
	logger      *utils.ServiceLogger
	auditLogger *utils.AuditLogger
}

// NewEventService creates a new event service. notifier may be nil; loc
// selects the calendar used for "today" and day buckets.
func NewEventService(
	repo repository.EventRepository,
	notifier Notifier,
	loc *time.Location,
	logger *zap.Logger,
) *EventService {
	if loc == nil {
		loc = time.Local
	}
	return &EventService{
		repo:        repo,
		notifier:    notifier,
		sensors:     events.DefaultSensors(),
		loc:         loc,
		now:         time.Now,
		logger:      utils.NewServiceLogger(logger, "event-service"),
		auditLogger: utils.NewAuditLogger(logger),
	}
}

// CreateEventRequest is the inbound event payload. Enum fields are strings so
// unknown values can be reported rather than silently zeroed.
type CreateEventRequest struct {
	ID              string   `json:"id,omitempty"`
	Timestamp       string   `json:"timestamp,omitempty"`
	SensorID        string   `json:"sensorId"`
	EventType       string   `json:"eventType"`
	RiskLevel       string   `json:"riskLevel"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Zone            string   `json:"zone,omitempty"`
	SuggestedAction string   `json:"suggestedAction,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// CreateEvent validates, completes and stores an event
func (s *EventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*events.Event, error) {
	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Append(ctx, event)
	if err != nil {
		s.logger.Error("Failed to store event", zap.Error(err))
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	metrics.IncEventCreated(string(stored.EventType), string(stored.RiskLevel))
	s.refreshStoreSize(ctx)
	s.auditLogger.LogEventCreated(stored.ID, stored.SensorID, string(stored.EventType), string(stored.RiskLevel), stored.Zone)
	if s.notifier != nil {
		s.notifier.EventCreated(*stored)
	}

	return stored, nil
}

// buildEvent turns a request into an event, repairing gaps the store can fill
func (s *EventService) buildEvent(req *CreateEventRequest) (*events.Event, error) {
	verr := &analytics.ValidationError{}
	if req == nil {
		verr.Add("body", "request body is required")
		return nil, verr
	}

	var event events.Event
	event.ID = strings.TrimSpace(req.ID)
	event.SensorID = strings.TrimSpace(req.SensorID)

	// Missing enums fall back to the least specific classification
	if strings.TrimSpace(req.EventType) == "" {
		event.EventType = events.EventTypeNoise
	} else if t, err := events.ParseEventType(req.EventType); err != nil {
		verr.Add("eventType", err.Error())
	} else {
		event.EventType = t
	}

	if strings.TrimSpace(req.RiskLevel) == "" {
		event.RiskLevel = events.RiskLow
	} else if r, err := events.ParseRiskLevel(req.RiskLevel); err != nil {
		verr.Add("riskLevel", err.Error())
	} else {
		event.RiskLevel = r
	}

	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			verr.Add("timestamp", "timestamp must be an ISO-8601 date-time")
		} else {
			event.Timestamp = parsed
		}
	} else {
		event.Timestamp = s.now().UTC()
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	sensor, known := events.FindSensor(s.sensors, event.SensorID)

	event.Zone = strings.TrimSpace(req.Zone)
	if event.Zone == "" && known {
		event.Zone = sensor.Zone
	}
	switch {
	case req.Latitude != nil:
		event.Latitude = *req.Latitude
	case known:
		event.Latitude = sensor.Latitude
	}
	switch {
	case req.Longitude != nil:
		event.Longitude = *req.Longitude
	case known:
		event.Longitude = sensor.Longitude
	}

	event.SuggestedAction = req.SuggestedAction
	if event.SuggestedAction == "" {
		event.SuggestedAction = events.SuggestedAction(event.RiskLevel)
	}
	event.Description = req.Description
	if event.Description == "" {
		event.Description = events.Description(event.EventType)
	}

	return &event, nil
}

// ListEvents returns the filtered events newest first, then applies limit and offset
func (s *EventService) ListEvents(ctx context.Context, criteria analytics.Criteria, limit, offset int) ([]events.Event, error) {
	filtered, err := s.filtered(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return analytics.Page(filtered, limit, offset), nil
}

// GetEvent returns the event with the given id
func (s *EventService) GetEvent(ctx context.Context, id string) (*events.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// Statistics aggregates the events matching criteria
func (s *EventService) Statistics(ctx context.Context, criteria analytics.Criteria) (analytics.Statistics, error) {
	filtered, err := s.filtered(ctx, criteria)
	if err != nil {
		return analytics.Statistics{}, err
	}
	return analytics.Compute(filtered, s.clock()), nil
}

// Timeline returns the last seven days of matching events bucketed by day
func (s *EventService) Timeline(ctx context.Context, criteria analytics.Criteria) ([]analytics.DayBucket, error) {
	filtered, err := s.filtered(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return analytics.Timeline(filtered, s.clock()), nil
}

// Trends returns the dashboard KPIs for matching events
func (s *EventService) Trends(ctx context.Context, criteria analytics.Criteria) (analytics.KPIs, error) {
	filtered, err := s.filtered(ctx, criteria)
	if err != nil {
		return analytics.KPIs{}, err
	}
	return analytics.Trends(filtered, s.clock()), nil
}

// ClearEvents empties the store and returns how many events were removed
func (s *EventService) ClearEvents(ctx context.Context, clientIP string) (int, error) {
	removed, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	if err := s.repo.Clear(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear events: %w", err)
	}

	s.refreshStoreSize(ctx)
	s.auditLogger.LogStoreCleared(removed, clientIP)
	if s.notifier != nil {
		s.notifier.EventsCleared(removed)
	}
	return removed, nil
}

// Count returns the number of stored events
func (s *EventService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Catalog describes the enums and the sensor deployment
type Catalog struct {
	RiskLevels []events.RiskLevelInfo `json:"riskLevels"`
	EventTypes []events.EventTypeInfo `json:"eventTypes"`
	Sensors    []events.Sensor        `json:"sensors"`
	TimeRanges []analytics.TimeRange  `json:"timeRanges"`
}

// Catalog returns the reference tables clients render from
func (s *EventService) Catalog() Catalog {
	sensors := make([]events.Sensor, len(s.sensors))
	copy(sensors, s.sensors)
	return Catalog{
		RiskLevels: events.RiskCatalog(),
		EventTypes: events.TypeCatalog(),
		Sensors:    sensors,
		TimeRanges: []analytics.TimeRange{
			analytics.TimeRangeHour, analytics.TimeRangeDay,
			analytics.TimeRangeWeek, analytics.TimeRangeAll,
		},
	}
}

func (s *EventService) filtered(ctx context.Context, criteria analytics.Criteria) ([]events.Event, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if criteria.IsEmpty() {
		return all, nil
	}
	return analytics.Apply(all, criteria, s.clock()), nil
}

// clock returns now in the configured calendar location
func (s *EventService) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *EventService) refreshStoreSize(ctx context.Context) {
	if n, err := s.repo.Count(ctx); err == nil {
		metrics.SetStoreSize(n)
	}
}
