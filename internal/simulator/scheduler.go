// internal/simulator/scheduler.go
package simulator

import (
	"context"
	"sync"
	"time"
)

// SchedulerState is either stopped or running
type SchedulerState string

const (
	StateStopped SchedulerState = "stopped"
	StateRunning SchedulerState = "running"
)

// tickerFunc returns a tick channel and its stop function
type tickerFunc func(time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Scheduler runs a task immediately on Start and then once per period until
// Stop. Each run gets its own goroutine and a context that Stop does not
// cancel, so slow runs may overlap.
type Scheduler struct {
	mu      sync.Mutex
	period  time.Duration
	task    func(context.Context)
	running bool
	cancel  context.CancelFunc
	tick    tickerFunc
}

// NewScheduler creates a stopped scheduler
func NewScheduler(period time.Duration, task func(context.Context)) *Scheduler {
	return &Scheduler{
		period: period,
		task:   task,
		tick:   realTicker,
	}
}

// Start moves to running. It returns false, leaving the existing schedule
// untouched, when already running.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticks, stopTicker := s.tick(s.period)
	s.running = true
	s.cancel = cancel

	go s.fire()
	go s.loop(ctx, ticks, stopTicker)
	return true
}

// Stop moves to stopped. In-flight runs finish on their own. It returns false
// when already stopped.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	s.cancel()
	s.cancel = nil
	s.running = false
	return true
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) State() SchedulerState {
	if s.Running() {
		return StateRunning
	}
	return StateStopped
}

func (s *Scheduler) Period() time.Duration {
	return s.period
}

func (s *Scheduler) loop(ctx context.Context, ticks <-chan time.Time, stopTicker func()) {
	defer stopTicker()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			// a tick and a Stop can race in select
			if ctx.Err() != nil {
				return
			}
			go s.fire()
		}
	}
}

func (s *Scheduler) fire() {
	s.task(context.Background())
}
