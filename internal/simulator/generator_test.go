package simulator

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"perimeter-monitor/pkg/events"
)

var genNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestSpecific_KnownSensor(t *testing.T) {
	g := NewGenerator(events.DefaultSensors(), nil, 0.01, 7)

	e := g.Specific(events.EventTypeAnimal, events.RiskLow, "SENSOR_003", genNow)

	require.Empty(t, e.ID)
	require.Equal(t, "SENSOR_003", e.SensorID)
	require.Equal(t, events.EventTypeAnimal, e.EventType)
	require.Equal(t, events.RiskLow, e.RiskLevel)
	require.Equal(t, "Rawdat Al-Tanhat Center", e.Zone)
	require.Equal(t, "Continuous monitoring only", e.SuggestedAction)
	require.Equal(t, "Wild animal movement", e.Description)
	require.Equal(t, genNow, e.Timestamp)
	require.LessOrEqual(t, math.Abs(e.Latitude-25.8389), 0.005)
	require.LessOrEqual(t, math.Abs(e.Longitude-45.6667), 0.005)
}

func TestSpecific_UnknownSensorFallsBackToFirst(t *testing.T) {
	g := NewGenerator(events.DefaultSensors(), nil, 0.01, 7)
	e := g.Specific(events.EventTypeHuman, events.RiskHigh, "SENSOR_999", genNow)
	require.Equal(t, "SENSOR_001", e.SensorID)
	require.Equal(t, "North Entrance Gate", e.Zone)
}

func TestSpecific_EmptySensorPicksAnyKnown(t *testing.T) {
	g := NewGenerator(events.DefaultSensors(), nil, 0.01, 7)
	for i := 0; i < 50; i++ {
		e := g.Specific(events.EventTypeNoise, events.RiskMedium, "", genNow)
		_, ok := events.FindSensor(events.DefaultSensors(), e.SensorID)
		require.True(t, ok)
	}
}

func TestRandom_RiskDistribution(t *testing.T) {
	g := NewGenerator(events.DefaultSensors(), nil, 0.01, 42)

	counts := map[events.EventType]map[events.RiskLevel]int{}
	totals := map[events.EventType]int{}
	for i := 0; i < 40000; i++ {
		e := g.Random(genNow)
		if counts[e.EventType] == nil {
			counts[e.EventType] = map[events.RiskLevel]int{}
		}
		counts[e.EventType][e.RiskLevel]++
		totals[e.EventType]++
	}

	frac := func(t events.EventType, r events.RiskLevel) float64 {
		return float64(counts[t][r]) / float64(totals[t])
	}

	require.InDelta(t, 0.6, frac(events.EventTypeVehicle, events.RiskHigh), 0.03)
	require.InDelta(t, 0.5, frac(events.EventTypeHuman, events.RiskMedium), 0.03)
	require.InDelta(t, 0.7, frac(events.EventTypeAnimal, events.RiskLow), 0.03)
	require.InDelta(t, 0.8, frac(events.EventTypeNoise, events.RiskLow), 0.03)
	require.Zero(t, counts[events.EventTypeAnimal][events.RiskHigh])
	require.Zero(t, counts[events.EventTypeNoise][events.RiskHigh])
	require.Len(t, totals, 4)
}

func TestParseRiskWeights(t *testing.T) {
	w, err := ParseRiskWeights(map[string]map[string]float64{
		"noise": {"high": 1},
	})
	require.NoError(t, err)
	require.Equal(t, []RiskWeight{{Level: events.RiskHigh, Weight: 1}}, w[events.EventTypeNoise])
	require.Equal(t, DefaultRiskWeights()[events.EventTypeVehicle], w[events.EventTypeVehicle])

	g := NewGenerator(events.DefaultSensors(), w, 0.01, 1)
	for i := 0; i < 200; i++ {
		if e := g.Random(genNow); e.EventType == events.EventTypeNoise {
			require.Equal(t, events.RiskHigh, e.RiskLevel)
		}
	}

	_, err = ParseRiskWeights(map[string]map[string]float64{"drone": {"low": 1}})
	require.Error(t, err)
	_, err = ParseRiskWeights(map[string]map[string]float64{"human": {"extreme": 1}})
	require.Error(t, err)
	_, err = ParseRiskWeights(map[string]map[string]float64{"human": {"low": -1, "high": 2}})
	require.Error(t, err)
	_, err = ParseRiskWeights(map[string]map[string]float64{"human": {"low": 0}})
	require.Error(t, err)
}

func TestProperty_RandomEventsAreWellFormed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	sensors := events.DefaultSensors()

	properties.Property("enums closed, jitter bounded, fields derived", prop.ForAll(
		func(seed int64) bool {
			e := NewGenerator(sensors, nil, 0.01, seed).Random(genNow)
			base, ok := events.FindSensor(sensors, e.SensorID)
			return ok &&
				e.EventType.IsValid() &&
				e.RiskLevel.IsValid() &&
				math.Abs(e.Latitude-base.Latitude) <= 0.005 &&
				math.Abs(e.Longitude-base.Longitude) <= 0.005 &&
				e.Zone == base.Zone &&
				e.SuggestedAction == events.SuggestedAction(e.RiskLevel) &&
				e.Description == events.Description(e.EventType)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
