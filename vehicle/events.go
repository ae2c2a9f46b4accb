package vehicle

import "time"

type EventType string

const (
	EventMoving       EventType = "moving"
	EventStopped      EventType = "stopped"
	EventBlocked      EventType = "blocked"
	EventNoFloor      EventType = "noFloor"
	EventTurn         EventType = "turn"
	EventSearchMiss   EventType = "searchMiss"
	EventVoiceCommand EventType = "voiceCommand"
)

// Event is published for telemetry clients.
type Event struct {
	Type      EventType `json:"type"`
	Time      time.Time `json:"time"`
	Direction string    `json:"direction,omitempty"`
	Heading   int       `json:"heading,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Rotation  float64   `json:"rotation,omitempty"`
	Command   string    `json:"command,omitempty"`
	Distance  int       `json:"distance,omitempty"`
}
