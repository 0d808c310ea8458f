// internal/repository/event_repository.go
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"perimeter-monitor/pkg/events"
)

// eventRepository implements EventRepository in process memory
type eventRepository struct {
	mu     sync.RWMutex
	events []events.Event
	logger *zap.Logger
	now    func() time.Time
}

// NewEventRepository creates an empty in-memory event repository
func NewEventRepository(logger *zap.Logger) EventRepository {
	return &eventRepository{
		logger: logger,
		now:    time.Now,
	}
}

// Append prepends the event and returns the stored copy
func (r *eventRepository) Append(ctx context.Context, event *events.Event) (*events.Event, error) {
	if event == nil {
		return nil, fmt.Errorf("failed to append event: nil event")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	stored := *event
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = r.now().UTC()
	}

	r.mu.Lock()
	r.events = append(r.events, events.Event{})
	copy(r.events[1:], r.events)
	r.events[0] = stored
	size := len(r.events)
	r.mu.Unlock()

	r.logger.Debug("Event stored",
		zap.String("event_id", stored.ID),
		zap.String("sensor_id", stored.SensorID),
		zap.Int("store_size", size),
	)

	return &stored, nil
}

// GetByID returns the first event whose id matches
func (r *eventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.events {
		if r.events[i].ID == id {
			e := r.events[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// List returns a copy of the log
func (r *eventRepository) List(ctx context.Context) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events), nil
}

// Clear empties the log; clearing an empty log is a no-op
func (r *eventRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	removed := len(r.events)
	r.events = nil
	r.mu.Unlock()

	r.logger.Info("Event store cleared", zap.Int("removed", removed))
	return nil
}
