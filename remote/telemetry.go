package remote

import (
	"robotcar/ups"
	"robotcar/vehicle"
)

type TelemetryType string

const (
	Hello   TelemetryType = "hello"
	Event   TelemetryType = "event"
	Battery TelemetryType = "battery"
)

// Telemetry is what the server pushes to the connected client.
type Telemetry struct {
	Type    TelemetryType        `json:"type"`
	Session string               `json:"session,omitempty"`
	Event   *vehicle.Event       `json:"event,omitempty"`
	Battery *ups.UpsModuleStatus `json:"battery,omitempty"`
}

func EventMessage(e vehicle.Event) *Telemetry {
	return &Telemetry{Type: Event, Event: &e}
}

func BatteryMessage(status ups.UpsModuleStatus) *Telemetry {
	return &Telemetry{Type: Battery, Battery: &status}
}
