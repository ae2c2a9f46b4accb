package vehicle

import (
	log "github.com/sirupsen/logrus"
)

// IsRoadClear centers the head and checks the forward, left and right
// sensors in that order. It stops at the first blocked reading.
func (c *Car) IsRoadClear() bool {
	c.head.Aim(CENTER)
	probes := []struct {
		name   string
		sensor DistanceSensor
	}{
		{"forward", c.sensors.Forward},
		{"left", c.sensors.Left},
		{"right", c.sensors.Right},
	}
	for _, p := range probes {
		if distance := p.sensor.DistanceCm(); distance <= c.cfg.ClearanceCm {
			log.WithFields(log.Fields{"sensor": p.name, "distance": distance}).Debug("Road is not clear")
			c.speaker.Say("Road is not clear")
			c.emit(Event{Type: EventBlocked, Direction: p.name, Distance: distance})
			return false
		}
	}
	return true
}

func (c *Car) floorPresent() bool {
	distance := c.sensors.Floor.DistanceCm()
	if distance > c.cfg.FloorDropCm {
		log.WithField("distance", distance).Debug("No floor ahead")
		c.speaker.Say("No floor ahead")
		c.emit(Event{Type: EventNoFloor, Distance: distance})
		return false
	}
	return true
}
