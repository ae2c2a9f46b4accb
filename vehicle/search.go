package vehicle

import (
	log "github.com/sirupsen/logrus"
)

// Headings probed during a direction search, preferring the side of the
// previous turn.
var (
	afterLeftTurn  = [...]int{60, 30, 0, 120, 150, 180}
	afterRightTurn = [...]int{120, 150, 180, 60, 30, 0}
)

// SearchHeadings returns a copy of the probe order for the given last turn.
func SearchHeadings(lastTurn Direction) [6]int {
	if lastTurn == Left {
		return afterLeftTurn
	}
	return afterRightTurn
}

// FindDirection aims the head over the candidate headings and turns towards
// the first one with enough clearance. When none is clear the car stays put.
func (c *Car) FindDirection() {
	for _, heading := range SearchHeadings(c.state.LastTurn) {
		c.head.Aim(heading)
		distance := c.sensors.Forward.DistanceCm()
		if distance <= c.cfg.ClearanceCm {
			continue
		}
		log.WithFields(log.Fields{"heading": heading, "distance": distance}).Debug("Found direction")
		c.head.Aim(CENTER)
		c.Turn(heading)
		if c.IsRoadClear() && c.floorPresent() {
			c.MoveForward()
		}
		return
	}
	log.Debug("No clear direction found")
	c.metrics.searchMiss()
	c.emit(Event{Type: EventSearchMiss})
}
