// Package hcsr04 measures distance with an HC-SR04 ultrasonic ranging module.
// It can stand in for a laser sensor, typically as the floor sensor.
package hcsr04

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// Speed of sound at sea level and 21 celsius, in meters per second.
const SPEED_OF_SOUND = 344

// OUT_OF_RANGE_CM matches the laser sensors: no echo reads as far away.
const OUT_OF_RANGE_CM = 819

const DEFAULT_ECHO_TIMEOUT = 100 * time.Millisecond

// Sensor wraps the two module pins.
//
// Datasheet: https://cdn.sparkfun.com/datasheets/Sensors/Proximity/HCSR04.pdf
type Sensor struct {
	Name        string
	Echo        gpio.PinIO
	Trigger     gpio.PinIO
	EchoTimeout time.Duration
}

// Open initializes the periph host drivers and resolves pins by name,
// e.g. "GPIO24" or the BCM number as a string on a Raspberry Pi.
func Open(name, echo, trigger string) (*Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	s := &Sensor{Name: name, EchoTimeout: DEFAULT_ECHO_TIMEOUT}
	if s.Echo = gpioreg.ByName(echo); s.Echo == nil {
		return nil, fmt.Errorf("no GPIO echo pin named: %s", echo)
	}
	if s.Trigger = gpioreg.ByName(trigger); s.Trigger == nil {
		return nil, fmt.Errorf("no GPIO trigger pin named: %s", trigger)
	}
	if err := s.Trigger.Out(gpio.Low); err != nil {
		return nil, err
	}
	if err := s.Echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, err
	}
	return s, nil
}

// TimeOfFlight triggers one ping and times the echo pulse.
func (s *Sensor) TimeOfFlight() (time.Duration, error) {
	if err := s.Echo.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return 0, err
	}
	if err := s.Trigger.Out(gpio.High); err != nil {
		return 0, err
	}
	time.Sleep(10 * time.Microsecond)
	if err := s.Trigger.Out(gpio.Low); err != nil {
		return 0, err
	}

	if !s.Echo.WaitForEdge(s.EchoTimeout) {
		return 0, fmt.Errorf("%s: no echo start detected", s.Name)
	}
	start := time.Now()
	if err := s.Echo.In(gpio.PullDown, gpio.FallingEdge); err != nil {
		return 0, err
	}
	if !s.Echo.WaitForEdge(s.EchoTimeout) {
		return 0, fmt.Errorf("%s: echo exceeded valid duration", s.Name)
	}
	return time.Since(start), nil
}

// Centimeters converts a round-trip time of flight into a one-way distance.
// It amounts to the datasheet's "divide microseconds by 58".
func Centimeters(timeOfFlight time.Duration) float64 {
	centimetersPerMicrosecond := float64(SPEED_OF_SOUND*100) / 1e6
	return float64(timeOfFlight.Microseconds()) / 2 * centimetersPerMicrosecond
}

func (s *Sensor) DistanceCm() int {
	tof, err := s.TimeOfFlight()
	if err != nil {
		log.WithError(err).WithField("sensor", s.Name).Warn("Could not read distance")
		return OUT_OF_RANGE_CM
	}
	return min(int(Centimeters(tof)), OUT_OF_RANGE_CM)
}
