// internal/handler/event_bus.go
package handler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"perimeter-monitor/pkg/events"
)

// Bus topics
const (
	TopicEventCreated  = "event.created"
	TopicEventsCleared = "events.cleared"
)

// Notification is a store change fanned out to live clients
type Notification struct {
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventBus distributes store notifications to topic subscribers. Publishing
// never blocks; slow subscribers miss notifications.
type EventBus struct {
	subscribers map[string][]chan Notification
	queue       chan Notification
	mutex       sync.RWMutex
	source      string
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(source string, logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Notification),
		queue:       make(chan Notification, 1000),
		source:      source,
		logger:      logger,
	}
}

// Run distributes queued notifications until ctx is done
func (eb *EventBus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-eb.queue:
			eb.distribute(n)
		}
	}
}

// Publish queues a notification
func (eb *EventBus) Publish(n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if n.Source == "" {
		n.Source = eb.source
	}

	select {
	case eb.queue <- n:
	default:
		eb.logger.Warn("Event bus full, dropping notification", zap.String("type", n.Type))
	}
}

// Subscribe returns a channel receiving notifications of the given topics
func (eb *EventBus) Subscribe(topics ...string) <-chan Notification {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	ch := make(chan Notification, 100)
	for _, topic := range topics {
		eb.subscribers[topic] = append(eb.subscribers[topic], ch)
	}
	return ch
}

func (eb *EventBus) distribute(n Notification) {
	eb.mutex.RLock()
	subscribers := eb.subscribers[n.Type]
	eb.mutex.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- n:
		default:
			eb.logger.Debug("Subscriber slow, notification skipped", zap.String("type", n.Type))
		}
	}
}

// EventCreated publishes a newly stored event
func (eb *EventBus) EventCreated(event events.Event) {
	eb.Publish(Notification{Type: TopicEventCreated, Data: event})
}

// EventsCleared publishes a store wipe
func (eb *EventBus) EventsCleared(removed int) {
	eb.Publish(Notification{Type: TopicEventsCleared, Data: map[string]int{"removed": removed}})
}
