// pkg/analytics/filter.go

// Package analytics holds the filtering and aggregation rules shared by every
// consumer of the event collection. Nothing here touches HTTP or storage.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"perimeter-monitor/pkg/events"
)

// All disables a criteria field
const All = "all"

// TimeRange is a recency window relative to now
type TimeRange string

const (
	TimeRangeHour TimeRange = "hour"
	TimeRangeDay  TimeRange = "day"
	TimeRangeWeek TimeRange = "week"
	TimeRangeAll  TimeRange = "all"
)

// Threshold returns the window length. ok is false for "all" and unknown ranges.
func (r TimeRange) Threshold() (time.Duration, bool) {
	switch r {
	case TimeRangeHour:
		return time.Hour, true
	case TimeRangeDay:
		return 24 * time.Hour, true
	case TimeRangeWeek:
		return 168 * time.Hour, true
	}
	return 0, false
}

// IsValid reports whether r is a known time range
func (r TimeRange) IsValid() bool {
	switch r {
	case TimeRangeHour, TimeRangeDay, TimeRangeWeek, TimeRangeAll:
		return true
	}
	return false
}

// Criteria selects events. Zero values and "all" mean no restriction.
type Criteria struct {
	EventType events.EventType `json:"eventType,omitempty"`
	RiskLevel events.RiskLevel `json:"riskLevel,omitempty"`
	TimeRange TimeRange        `json:"timeRange,omitempty"`
	Query     string           `json:"query,omitempty"`
}

// ValidationError collects invalid input fields
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field problem
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// OrNil returns nil when no field was recorded
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ParseCriteria builds criteria from raw string values such as query parameters.
// Empty values and "all" are accepted for every enum field.
func ParseCriteria(eventType, riskLevel, timeRange, query string) (Criteria, error) {
	var c Criteria
	verr := &ValidationError{}

	if v := strings.TrimSpace(eventType); v != "" && !strings.EqualFold(v, All) {
		t, err := events.ParseEventType(v)
		if err != nil {
			verr.Add("eventType", err.Error())
		}
		c.EventType = t
	}

	if v := strings.TrimSpace(riskLevel); v != "" && !strings.EqualFold(v, All) {
		r, err := events.ParseRiskLevel(v)
		if err != nil {
			verr.Add("riskLevel", err.Error())
		}
		c.RiskLevel = r
	}

	if v := strings.TrimSpace(timeRange); v != "" {
		tr := TimeRange(strings.ToLower(v))
		if !tr.IsValid() {
			verr.Add("timeRange", fmt.Sprintf("unknown time range %q", v))
		} else if tr != TimeRangeAll {
			c.TimeRange = tr
		}
	}

	c.Query = strings.TrimSpace(query)

	if err := verr.OrNil(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// IsEmpty reports whether the criteria select every event
func (c Criteria) IsEmpty() bool {
	return c.Query == "" &&
		(c.EventType == "" || string(c.EventType) == All) &&
		(c.RiskLevel == "" || string(c.RiskLevel) == All) &&
		(c.TimeRange == "" || c.TimeRange == TimeRangeAll)
}

// Apply returns the events matching every predicate, in input order.
// Predicates run as query, event type, risk level, time range. Events stamped in
// the future pass the time range predicate.
func Apply(in []events.Event, c Criteria, now time.Time) []events.Event {
	out := make([]events.Event, 0, len(in))
	query := strings.ToLower(c.Query)
	threshold, timed := c.TimeRange.Threshold()

	for _, e := range in {
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if c.EventType != "" && string(c.EventType) != All && e.EventType != c.EventType {
			continue
		}
		if c.RiskLevel != "" && string(c.RiskLevel) != All && e.RiskLevel != c.RiskLevel {
			continue
		}
		if timed && now.Sub(e.Timestamp) > threshold {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesQuery(e events.Event, lowered string) bool {
	return strings.Contains(strings.ToLower(e.Zone), lowered) ||
		strings.Contains(strings.ToLower(e.SensorID), lowered) ||
		strings.Contains(strings.ToLower(e.Description), lowered)
}

// Page slices a result set. A non-positive limit returns everything after offset.
func Page(in []events.Event, limit, offset int) []events.Event {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return []events.Event{}
	}
	end := len(in)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return in[offset:end]
}
