package command

import (
	"strings"
	"sync/atomic"
)

type VoiceCommand int32

const (
	None VoiceCommand = iota
	Left
	Right
	Stop
	Forward
	Go
	Back
	Backward
)

func (c VoiceCommand) String() string {
	switch c {
	case None:
		return "none"
	case Left:
		return "left"
	case Right:
		return "right"
	case Stop:
		return "stop"
	case Forward:
		return "forward"
	case Go:
		return "go"
	case Back:
		return "back"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// keywords is searched in order and the first one found anywhere in the
// text wins, so "back" shadows "backward" and "go" shadows "back".
var keywords = [...]struct {
	word    string
	command VoiceCommand
}{
	{"left", Left},
	{"right", Right},
	{"stop", Stop},
	{"forward", Forward},
	{"go", Go},
	{"back", Back},
	{"backward", Backward},
}

// Parse maps free text to a command by substring match, ignoring case.
func Parse(text string) VoiceCommand {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k.word) {
			return k.command
		}
	}
	return None
}

// Slot holds at most one pending command between the ingestion goroutine
// and the control loop. A newer command silently replaces an unconsumed
// one; losing or repeating a single command is acceptable, so no lock.
type Slot struct {
	v atomic.Int32
}

func (s *Slot) Put(c VoiceCommand) {
	s.v.Store(int32(c))
}

// Take returns the pending command and empties the slot.
func (s *Slot) Take() VoiceCommand {
	return VoiceCommand(s.v.Swap(int32(None)))
}

func (s *Slot) Peek() VoiceCommand {
	return VoiceCommand(s.v.Load())
}
