// pkg/analytics/timeline.go
package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"perimeter-monitor/pkg/events"
)

// TimelineDays is the number of day buckets in a timeline, today included
const TimelineDays = 7

// DayBucket accumulates the events of one day
type DayBucket struct {
	Date   string `json:"date"`
	Total  int    `json:"total"`
	High   int    `json:"high"`
	Medium int    `json:"medium"`
	Low    int    `json:"low"`
}

// KPIs are the day-over-day indicators shown on the statistics page
type KPIs struct {
	Today        int     `json:"today"`
	Yesterday    int     `json:"yesterday"`
	Trend        int     `json:"trend"`
	AvgPerDay    string  `json:"avgPerDay"`
	HighRiskRate *string `json:"highRiskRate"`
}

// Timeline buckets events into the last seven days, oldest first. An event's bucket
// is floor((now - timestamp) / 24h) days ago; future and older events are dropped.
func Timeline(in []events.Event, now time.Time) []DayBucket {
	buckets := make([]DayBucket, TimelineDays)
	for i := range buckets {
		day := now.AddDate(0, 0, -(TimelineDays - 1 - i))
		buckets[i].Date = day.Format("2006-01-02")
	}

	for _, e := range in {
		daysDiff := int(math.Floor(now.Sub(e.Timestamp).Hours() / 24))
		if daysDiff >= TimelineDays {
			continue
		}
		idx := TimelineDays - 1 - daysDiff
		if idx < 0 || idx >= TimelineDays {
			continue
		}
		b := &buckets[idx]
		b.Total++
		switch e.RiskLevel {
		case events.RiskHigh:
			b.High++
		case events.RiskMedium:
			b.Medium++
		case events.RiskLow:
			b.Low++
		}
	}
	return buckets
}

// Trends compares today with yesterday by calendar date in now's location
func Trends(in []events.Event, now time.Time) KPIs {
	yesterday := now.AddDate(0, 0, -1)

	var k KPIs
	for _, e := range in {
		switch {
		case SameDay(e.Timestamp, now):
			k.Today++
		case SameDay(e.Timestamp, yesterday):
			k.Yesterday++
		}
	}
	k.Trend = k.Today - k.Yesterday
	k.AvgPerDay = decimal.NewFromInt(int64(len(in))).
		Div(decimal.NewFromInt(TimelineDays)).
		StringFixed(1)

	if rate, ok := HighRiskRate(in); ok {
		s := rate.StringFixed(1)
		k.HighRiskRate = &s
	}
	return k
}
