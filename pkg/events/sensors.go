// pkg/events/sensors.go
package events

// defaultSensors is the reserve's fixed sensor layout
var defaultSensors = []Sensor{
	{ID: "SENSOR_001", Latitude: 25.9000, Longitude: 45.6500, Zone: "North Entrance Gate", Active: true},
	{ID: "SENSOR_002", Latitude: 25.7500, Longitude: 45.6500, Zone: "South Entrance Gate", Active: true},
	{ID: "SENSOR_003", Latitude: 25.8389, Longitude: 45.6667, Zone: "Rawdat Al-Tanhat Center", Active: true},
	{ID: "SENSOR_004", Latitude: 25.8000, Longitude: 45.7000, Zone: "Rawdat Al-Khafs", Active: true},
	{ID: "SENSOR_005", Latitude: 25.9000, Longitude: 45.5500, Zone: "Northwest Corner", Active: true},
	{ID: "SENSOR_006", Latitude: 25.9000, Longitude: 45.7500, Zone: "Northeast Corner", Active: true},
	{ID: "SENSOR_007", Latitude: 25.7500, Longitude: 45.7500, Zone: "Southeast Corner", Active: true},
	{ID: "SENSOR_008", Latitude: 25.7500, Longitude: 45.5500, Zone: "Southwest Corner", Active: true},
}

// DefaultSensors returns a fresh copy of the fixed sensor table
func DefaultSensors() []Sensor {
	out := make([]Sensor, len(defaultSensors))
	copy(out, defaultSensors)
	return out
}

// FindSensor looks up a sensor by id
func FindSensor(sensors []Sensor, id string) (Sensor, bool) {
	for _, s := range sensors {
		if s.ID == id {
			return s, true
		}
	}
	return Sensor{}, false
}
