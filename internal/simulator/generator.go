// internal/simulator/generator.go

// Package simulator produces synthetic sensor detections and delivers them to
// the backend on a fixed schedule.
package simulator

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"perimeter-monitor/pkg/events"
)

// RiskWeight is the relative likelihood of one risk level
type RiskWeight struct {
	Level  events.RiskLevel
	Weight float64
}

// RiskWeights maps an event type to its risk distribution
type RiskWeights map[events.EventType][]RiskWeight

// DefaultRiskWeights returns the stock type-conditioned risk distribution
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		events.EventTypeVehicle: {{events.RiskHigh, 0.6}, {events.RiskMedium, 0.2}, {events.RiskLow, 0.2}},
		events.EventTypeHuman:   {{events.RiskMedium, 0.5}, {events.RiskLow, 0.3}, {events.RiskHigh, 0.2}},
		events.EventTypeAnimal:  {{events.RiskLow, 0.7}, {events.RiskMedium, 0.3}},
		events.EventTypeNoise:   {{events.RiskLow, 0.8}, {events.RiskMedium, 0.2}},
	}
}

// ParseRiskWeights overlays configured distributions on the defaults. Each
// configured type replaces its default entirely.
func ParseRiskWeights(raw map[string]map[string]float64) (RiskWeights, error) {
	weights := DefaultRiskWeights()

	for rawType, levels := range raw {
		t, err := events.ParseEventType(rawType)
		if err != nil {
			return nil, fmt.Errorf("risk_weights: %w", err)
		}

		dist := make([]RiskWeight, 0, len(levels))
		sum := 0.0
		for rawLevel, w := range levels {
			r, err := events.ParseRiskLevel(rawLevel)
			if err != nil {
				return nil, fmt.Errorf("risk_weights.%s: %w", rawType, err)
			}
			if w < 0 {
				return nil, fmt.Errorf("risk_weights.%s.%s must not be negative", rawType, rawLevel)
			}
			sum += w
			dist = append(dist, RiskWeight{Level: r, Weight: w})
		}
		if sum <= 0 {
			return nil, fmt.Errorf("risk_weights.%s must have a positive total", strings.ToLower(rawType))
		}

		sort.Slice(dist, func(i, j int) bool { return dist[i].Level.Rank() > dist[j].Level.Rank() })
		weights[t] = dist
	}
	return weights, nil
}

// Generator builds synthetic events. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	sensors []events.Sensor
	weights RiskWeights
	jitter  float64
}

// NewGenerator creates a generator over the given sensors. jitter is the full
// width of the coordinate noise, so each axis moves by at most jitter/2.
func NewGenerator(sensors []events.Sensor, weights RiskWeights, jitter float64, seed int64) *Generator {
	if weights == nil {
		weights = DefaultRiskWeights()
	}
	return &Generator{
		rnd:     rand.New(rand.NewSource(seed)),
		sensors: append([]events.Sensor(nil), sensors...),
		weights: weights,
		jitter:  jitter,
	}
}

// Random draws a sensor and event type uniformly and a risk level from the
// type's distribution
func (g *Generator) Random(now time.Time) events.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	sensor := g.sensors[g.rnd.Intn(len(g.sensors))]
	eventType := events.EventTypes[g.rnd.Intn(len(events.EventTypes))]
	risk := g.pickRisk(eventType)

	return g.build(sensor, eventType, risk, now)
}

// Specific builds an event with the caller's type and risk. A known sensor id
// selects that sensor, an unknown id falls back to the first sensor and an
// empty id picks one at random.
func (g *Generator) Specific(eventType events.EventType, risk events.RiskLevel, sensorID string, now time.Time) events.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	var sensor events.Sensor
	if sensorID == "" {
		sensor = g.sensors[g.rnd.Intn(len(g.sensors))]
	} else if s, ok := events.FindSensor(g.sensors, sensorID); ok {
		sensor = s
	} else {
		sensor = g.sensors[0]
	}

	return g.build(sensor, eventType, risk, now)
}

func (g *Generator) build(sensor events.Sensor, eventType events.EventType, risk events.RiskLevel, now time.Time) events.Event {
	return events.Event{
		Timestamp:       now.UTC(),
		SensorID:        sensor.ID,
		EventType:       eventType,
		RiskLevel:       risk,
		Latitude:        sensor.Latitude + (g.rnd.Float64()-0.5)*g.jitter,
		Longitude:       sensor.Longitude + (g.rnd.Float64()-0.5)*g.jitter,
		Zone:            sensor.Zone,
		SuggestedAction: events.SuggestedAction(risk),
		Description:     events.Description(eventType),
	}
}

// pickRisk walks the cumulative distribution; callers hold g.mu
func (g *Generator) pickRisk(t events.EventType) events.RiskLevel {
	dist := g.weights[t]
	if len(dist) == 0 {
		return events.RiskLow
	}

	total := 0.0
	for _, w := range dist {
		total += w.Weight
	}

	u := g.rnd.Float64() * total
	acc := 0.0
	for _, w := range dist {
		acc += w.Weight
		if u < acc {
			return w.Level
		}
	}
	return dist[len(dist)-1].Level
}
