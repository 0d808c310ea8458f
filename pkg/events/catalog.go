// pkg/events/catalog.go
package events

// Canonical display and action metadata per enum value. Every surface that needs a
// label, color or suggested action reads it from here.

// RiskLevelInfo describes how a risk level is presented and acted upon
type RiskLevelInfo struct {
	Level           RiskLevel `json:"level"`
	Label           string    `json:"label"`
	Color           string    `json:"color"`
	SuggestedAction string    `json:"suggestedAction"`
}

// EventTypeInfo describes how an event type is presented
type EventTypeInfo struct {
	Type        EventType `json:"type"`
	Label       string    `json:"label"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
}

var riskLevelTable = map[RiskLevel]RiskLevelInfo{
	RiskHigh: {
		Level:           RiskHigh,
		Label:           "High",
		Color:           "#DC2626",
		SuggestedAction: "Dispatch security patrol immediately + activate cameras",
	},
	RiskMedium: {
		Level:           RiskMedium,
		Label:           "Medium",
		Color:           "#F59E0B",
		SuggestedAction: "Alert nearby patrols + redirect camera",
	},
	RiskLow: {
		Level:           RiskLow,
		Label:           "Low",
		Color:           "#10B981",
		SuggestedAction: "Continuous monitoring only",
	},
}

var eventTypeTable = map[EventType]EventTypeInfo{
	EventTypeHuman: {
		Type:        EventTypeHuman,
		Label:       "Human",
		Color:       "#3B82F6",
		Description: "Suspicious human movement",
	},
	EventTypeVehicle: {
		Type:        EventTypeVehicle,
		Label:       "Vehicle",
		Color:       "#8B5CF6",
		Description: "Unauthorized vehicle detected",
	},
	EventTypeAnimal: {
		Type:        EventTypeAnimal,
		Label:       "Animal",
		Color:       "#10B981",
		Description: "Wild animal movement",
	},
	EventTypeNoise: {
		Type:        EventTypeNoise,
		Label:       "Noise",
		Color:       "#F59E0B",
		Description: "Abnormal noise",
	},
}

// RiskInfo returns the metadata for a risk level. Unknown levels get the low entry.
func RiskInfo(level RiskLevel) RiskLevelInfo {
	if info, ok := riskLevelTable[level]; ok {
		return info
	}
	return riskLevelTable[RiskLow]
}

// TypeInfo returns the metadata for an event type
func TypeInfo(t EventType) (EventTypeInfo, bool) {
	info, ok := eventTypeTable[t]
	return info, ok
}

// SuggestedAction returns the operator guidance for a risk level
func SuggestedAction(level RiskLevel) string {
	return RiskInfo(level).SuggestedAction
}

// Description returns the fixed description template for an event type
func Description(t EventType) string {
	if info, ok := eventTypeTable[t]; ok {
		return info.Description
	}
	return "Unknown event"
}

// RiskCatalog returns the risk level table in ascending order
func RiskCatalog() []RiskLevelInfo {
	out := make([]RiskLevelInfo, 0, len(RiskLevels))
	for _, level := range RiskLevels {
		out = append(out, riskLevelTable[level])
	}
	return out
}

// TypeCatalog returns the event type table in display order
func TypeCatalog() []EventTypeInfo {
	out := make([]EventTypeInfo, 0, len(EventTypes))
	for _, t := range EventTypes {
		out = append(out, eventTypeTable[t])
	}
	return out
}
