// Package servo aims an SG90 micro servo carrying the forward range sensor.
package servo

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// PulseOutput is a 50Hz PWM output: a PCA9685 channel or a sysfs pwm.
type PulseOutput interface {
	SetPulseMs(ms float64) error
}

const (
	MIN_PULSE_MS = 0.5 // 0 degrees
	MAX_PULSE_MS = 2.5 // 180 degrees
	MAX_ANGLE    = 180
	CENTER       = 90
	SETTLE_TIME  = 250 * time.Millisecond
)

type Servo struct {
	out          PulseOutput
	lastPosition int
	settle       time.Duration
	sleep        func(time.Duration)
}

func New(out PulseOutput) *Servo {
	return &Servo{
		out:          out,
		lastPosition: -1,
		settle:       SETTLE_TIME,
		sleep:        time.Sleep,
	}
}

// WithSleep replaces the settle delay function, used by tests and simulations.
func (s *Servo) WithSleep(sleep func(time.Duration)) *Servo {
	s.sleep = sleep
	return s
}

func PulseMs(angle int) float64 {
	angle = min(max(angle, 0), MAX_ANGLE)
	return (MAX_PULSE_MS-MIN_PULSE_MS)*float64(angle)/MAX_ANGLE + MIN_PULSE_MS
}

// Aim moves to angle (0-180) and waits for the horn to settle. Repeating
// the current angle costs nothing.
func (s *Servo) Aim(angle int) {
	angle = min(max(angle, 0), MAX_ANGLE)
	if angle == s.lastPosition {
		return
	}
	if err := s.out.SetPulseMs(PulseMs(angle)); err != nil {
		log.WithError(err).WithField("angle", angle).Error("Could not move servo")
		return
	}
	s.lastPosition = angle
	s.sleep(s.settle)
}

func (s *Servo) Position() int {
	return s.lastPosition
}
