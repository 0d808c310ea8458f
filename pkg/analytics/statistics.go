// pkg/analytics/statistics.go
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"perimeter-monitor/pkg/events"
)

// Statistics is a derived view over an event snapshot. It is never cached.
type Statistics struct {
	TotalEvents      int                      `json:"totalEvents"`
	HighRiskEvents   int                      `json:"highRiskEvents"`
	MediumRiskEvents int                      `json:"mediumRiskEvents"`
	LowRiskEvents    int                      `json:"lowRiskEvents"`
	EventsByType     map[events.EventType]int `json:"eventsByType"`
	EventsToday      int                      `json:"eventsToday"`
}

// Compute counts events per risk level, per type and for the current calendar day.
// Calendar days are evaluated in now's location.
func Compute(in []events.Event, now time.Time) Statistics {
	stats := Statistics{
		TotalEvents:  len(in),
		EventsByType: make(map[events.EventType]int, len(events.EventTypes)),
	}
	for _, t := range events.EventTypes {
		stats.EventsByType[t] = 0
	}

	for _, e := range in {
		switch e.RiskLevel {
		case events.RiskHigh:
			stats.HighRiskEvents++
		case events.RiskMedium:
			stats.MediumRiskEvents++
		case events.RiskLow:
			stats.LowRiskEvents++
		}
		if e.EventType.IsValid() {
			stats.EventsByType[e.EventType]++
		}
		if SameDay(e.Timestamp, now) {
			stats.EventsToday++
		}
	}
	return stats
}

// SameDay reports whether t falls on ref's calendar date in ref's location
func SameDay(t, ref time.Time) bool {
	ty, tm, td := t.In(ref.Location()).Date()
	ry, rm, rd := ref.Date()
	return ty == ry && tm == rm && td == rd
}

// HighRiskRate returns the share of high risk events as a percentage.
// ok is false for an empty collection, where the rate is undefined.
func HighRiskRate(in []events.Event) (rate decimal.Decimal, ok bool) {
	if len(in) == 0 {
		return decimal.Zero, false
	}
	high := 0
	for _, e := range in {
		if e.RiskLevel == events.RiskHigh {
			high++
		}
	}
	return decimal.NewFromInt(int64(high)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(len(in)))), true
}
