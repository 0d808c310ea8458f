// pkg/events/types.go
package events

import (
	"fmt"
	"strings"
	"time"
)

// EventType represents what a perimeter sensor detected
type EventType string

const (
	EventTypeHuman   EventType = "human"
	EventTypeVehicle EventType = "vehicle"
	EventTypeAnimal  EventType = "animal"
	EventTypeNoise   EventType = "noise"
)

// RiskLevel represents the severity attached to an event
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// EventTypes lists every event type in display order
var EventTypes = []EventType{EventTypeHuman, EventTypeVehicle, EventTypeAnimal, EventTypeNoise}

// RiskLevels lists every risk level from lowest to highest
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// IsValid reports whether t is one of the known event types
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeHuman, EventTypeVehicle, EventTypeAnimal, EventTypeNoise:
		return true
	}
	return false
}

// IsValid reports whether r is one of the known risk levels
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Rank orders risk levels: low < medium < high. Unknown levels rank below low.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 0
}

// ParseEventType parses a case-insensitive event type
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// ParseRiskLevel parses a case-insensitive risk level
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return r, nil
}

// Event is a single detection record. Stored events are never mutated.
type Event struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	SensorID        string    `json:"sensorId"`
	EventType       EventType `json:"eventType"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Zone            string    `json:"zone"`
	SuggestedAction string    `json:"suggestedAction"`
	Description     string    `json:"description"`
}

// Sensor is a fixed-location detection point from the reserve's sensor table
type Sensor struct {
	ID            string     `json:"id"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Zone          string     `json:"zone"`
	Active        bool       `json:"active"`
	LastDetection *time.Time `json:"lastDetection"`
}
