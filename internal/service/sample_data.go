// internal/service/sample_data.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"perimeter-monitor/pkg/events"
)

// sampleScenario is one fixed sensor situation used to pre-populate the store
type sampleScenario struct {
	sensorID    string
	eventType   events.EventType
	riskLevel   events.RiskLevel
	description string
}

var sampleScenarios = []sampleScenario{
	{"SENSOR_001", events.EventTypeVehicle, events.RiskHigh, "Unauthorized vehicle near the north entrance"},
	{"SENSOR_003", events.EventTypeAnimal, events.RiskLow, "Arabian gazelle in the protected area"},
	{"SENSOR_004", events.EventTypeHuman, events.RiskMedium, "Suspicious human movement in Rawdat Al-Khafs"},
	{"SENSOR_002", events.EventTypeNoise, events.RiskLow, "Natural noise - wildlife"},
	{"SENSOR_005", events.EventTypeVehicle, events.RiskHigh, "Unauthorized entry attempt"},
	{"SENSOR_006", events.EventTypeAnimal, events.RiskLow, "Ostriches in their natural habitat"},
}

const (
	samplesPerScenario = 3
	sampleJitter       = 0.01
)

// sampleEvents builds the seed set: scenario i, repetition j is stamped
// (i*5+j) minutes before now. The result is newest first.
func sampleEvents(now time.Time, rnd *rand.Rand) []events.Event {
	sensors := events.DefaultSensors()
	out := make([]events.Event, 0, len(sampleScenarios)*samplesPerScenario)

	for i, sc := range sampleScenarios {
		base, ok := events.FindSensor(sensors, sc.sensorID)
		if !ok {
			continue
		}
		for j := 0; j < samplesPerScenario; j++ {
			out = append(out, events.Event{
				Timestamp:       now.Add(-time.Duration(i*5+j) * time.Minute).UTC(),
				SensorID:        sc.sensorID,
				EventType:       sc.eventType,
				RiskLevel:       sc.riskLevel,
				Latitude:        base.Latitude + (rnd.Float64()-0.5)*sampleJitter,
				Longitude:       base.Longitude + (rnd.Float64()-0.5)*sampleJitter,
				Zone:            base.Zone,
				SuggestedAction: events.SuggestedAction(sc.riskLevel),
				Description:     sc.description,
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Timestamp.After(out[b].Timestamp)
	})
	return out
}

// SeedSampleEvents loads the fixed sample set into the store and returns how
// many events were added
func (s *EventService) SeedSampleEvents(ctx context.Context) (int, error) {
	seed := sampleEvents(s.now(), rand.New(rand.NewSource(s.now().UnixNano())))

	// Append prepends, so insert oldest first to keep the log newest first
	for i := len(seed) - 1; i >= 0; i-- {
		if _, err := s.repo.Append(ctx, &seed[i]); err != nil {
			return len(seed) - 1 - i, fmt.Errorf("failed to seed sample events: %w", err)
		}
	}

	s.refreshStoreSize(ctx)
	s.logger.Info("Sample events seeded", zap.Int("count", len(seed)))
	return len(seed), nil
}
