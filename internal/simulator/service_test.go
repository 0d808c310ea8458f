package simulator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"perimeter-monitor/pkg/analytics"
	"perimeter-monitor/pkg/events"
)

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []events.Event
	err       error
}

func (f *fakeDeliverer) Deliver(ctx context.Context, e events.Event) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e.ID = "stored"
	f.delivered = append(f.delivered, e)
	return &e, nil
}

func (f *fakeDeliverer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

func newTestSimulator(d Deliverer) *Service {
	sensors := events.DefaultSensors()
	s := NewService(NewGenerator(sensors, nil, 0.01, 11), d, sensors, time.Hour, time.Second, "http://localhost:5000/api/v1", zap.NewNop())
	s.now = func() time.Time { return genNow }
	return s
}

func TestService_TriggerUpdatesState(t *testing.T) {
	d := &fakeDeliverer{}
	s := newTestSimulator(d)

	stored, err := s.Trigger(context.Background(), "vehicle", "high", "SENSOR_005")
	require.NoError(t, err)
	require.Equal(t, "stored", stored.ID)
	require.Equal(t, "SENSOR_005", stored.SensorID)

	state := s.State()
	require.False(t, state.IsRunning)
	require.Equal(t, int64(1), state.TotalEventsGenerated)
	require.NotNil(t, state.LastEventTime)
	require.Equal(t, genNow, *state.LastEventTime)
	require.Equal(t, int64(time.Hour/time.Millisecond), state.IntervalMS)

	for _, sensor := range state.Sensors {
		if sensor.ID == "SENSOR_005" {
			require.NotNil(t, sensor.LastDetection)
		} else {
			require.Nil(t, sensor.LastDetection)
		}
	}
}

func TestService_TriggerValidates(t *testing.T) {
	d := &fakeDeliverer{}
	s := newTestSimulator(d)

	_, err := s.Trigger(context.Background(), "", "high", "")
	var verr *analytics.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "eventType")

	_, err = s.Trigger(context.Background(), "vehicle", "apocalyptic", "")
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "riskLevel")

	require.Zero(t, d.count())
}

func TestService_TriggerSurfacesDeliveryFailure(t *testing.T) {
	d := &fakeDeliverer{err: &DeliveryError{StatusCode: 500}}
	s := newTestSimulator(d)

	_, err := s.Trigger(context.Background(), "noise", "low", "")
	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))
	require.Zero(t, s.State().TotalEventsGenerated)
	require.Nil(t, s.State().LastEventTime)
}

func TestService_StartStop(t *testing.T) {
	d := &fakeDeliverer{}
	s := newTestSimulator(d)

	require.True(t, s.Start())
	require.False(t, s.Start())
	require.True(t, s.State().IsRunning)

	// the first run fires immediately
	require.Eventually(t, func() bool { return d.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return s.State().TotalEventsGenerated == 1 }, time.Second, 5*time.Millisecond)

	require.True(t, s.Stop())
	require.False(t, s.Stop())
	require.False(t, s.State().IsRunning)
}

func TestService_ScheduledFailureIsDropped(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("connection refused")}
	s := newTestSimulator(d)

	s.runOnce(context.Background())
	require.Zero(t, s.State().TotalEventsGenerated)
}
