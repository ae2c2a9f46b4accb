package vl53l0x

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"robotcar/gpio"
	"robotcar/i2c"
)

// Shutdown is the XSHUT line of one sensor; LOW holds the sensor in reset.
type Shutdown interface {
	Output(value gpio.Value) error
}

type Placement struct {
	Name    string
	XShut   Shutdown
	Address uint8
}

// Chain brings up several sensors that all power on at ADDRESS_DEFAULT.
// Every sensor is held in reset, then released one at a time and moved to
// its own address before the next one wakes up.
func Chain(bus i2c.Conn, placements []Placement, longRange bool, sleep func(time.Duration)) ([]*Sensor, error) {
	if sleep == nil {
		sleep = time.Sleep
	}
	for _, p := range placements {
		if err := p.XShut.Output(gpio.LOW); err != nil {
			return nil, fmt.Errorf("reset %s sensor: %w", p.Name, err)
		}
	}
	sleep(10 * time.Millisecond)

	sensors := make([]*Sensor, 0, len(placements))
	for _, p := range placements {
		if err := p.XShut.Output(gpio.HIGH); err != nil {
			return nil, fmt.Errorf("release %s sensor: %w", p.Name, err)
		}
		sleep(10 * time.Millisecond)

		s := New(bus, ADDRESS_DEFAULT, p.Name)
		s.sleep = sleep
		s.SetLongRange(longRange)
		if err := s.Init(); err != nil {
			return nil, err
		}
		if err := s.SetAddress(p.Address); err != nil {
			return nil, err
		}
		if err := s.Init(); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"sensor": p.Name, "address": fmt.Sprintf("%#02x", p.Address)}).Debug("Laser sensor ready")
		sensors = append(sensors, s)
	}
	return sensors, nil
}
