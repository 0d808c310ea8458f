// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"

	"perimeter-monitor/pkg/events"
)

// ErrEventNotFound is returned when no event carries the requested id
var ErrEventNotFound = errors.New("event not found")

// EventRepository defines event data access operations
type EventRepository interface {
	// Append stores an event at the head of the log, backfilling id and timestamp
	Append(ctx context.Context, event *events.Event) (*events.Event, error)
	GetByID(ctx context.Context, id string) (*events.Event, error)

	// List returns a snapshot, newest first
	List(ctx context.Context) ([]events.Event, error)
	Count(ctx context.Context) (int, error)

	// Clear drops every stored event
	Clear(ctx context.Context) error
}
