package vehicle

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type TurnPhase int

const (
	BackingUp TurnPhase = iota
	Calibrating
	Rotating
	GoalReached
	TimedOut
)

func (p TurnPhase) String() string {
	switch p {
	case BackingUp:
		return "backingUp"
	case Calibrating:
		return "calibrating"
	case Rotating:
		return "rotating"
	case GoalReached:
		return "goalReached"
	case TimedOut:
		return "timedOut"
	}
	return "unknown"
}

// TurnResult describes a finished turn. Outcome is GoalReached or TimedOut;
// running out of rounds counts as TimedOut.
type TurnResult struct {
	Heading   int
	Direction Direction
	Goal      float64
	Rotation  float64
	Rounds    int
	Elapsed   time.Duration
	Outcome   TurnPhase
}

func goalReached(goal, rotation float64) bool {
	return (goal > 0 && rotation >= goal) || (goal < 0 && rotation <= goal)
}

// Turn rotates the car by heading-90 degrees, positive being to the left.
// The heading is an absolute head angle 0-180 with 90 straight ahead.
// The motors are always halted when Turn returns.
func (c *Car) Turn(heading int) TurnResult {
	heading = min(max(heading, 0), MAX_HEADING)
	result := TurnResult{
		Heading: heading,
		Goal:    float64(heading - CENTER),
		Outcome: TimedOut,
	}
	logger := log.WithField("heading", heading)

	logger.WithField("phase", BackingUp).Debug("Turn")
	c.MoveBackward()
	c.clock.Sleep(c.cfg.BackUpTime)

	logger.WithField("phase", Calibrating).Debug("Turn")
	c.gyro.Calibrate()

	logger.WithField("phase", Rotating).Debug("Turn")
	if heading > CENTER {
		c.speaker.Say("Turning left")
		result.Direction = Left
		c.drive.SpinLeft(c.cfg.TurnSpeed)
	} else {
		c.speaker.Say("Turning right")
		result.Direction = Right
		c.drive.SpinRight(c.cfg.TurnSpeed)
	}
	c.state.LastTurn = result.Direction
	c.gyro.Reset()

	start := c.clock.Now()
	for round := 0; round < c.cfg.TurnRounds; round++ {
		roundStart := c.clock.Now()
		if roundStart.Sub(start) >= c.cfg.TurnTimeout {
			break
		}
		clear := c.IsRoadClear()
		result.Rotation = c.gyro.Integrate(c.clock.Now().Sub(roundStart))
		result.Rounds = round + 1
		if clear && goalReached(result.Goal, result.Rotation) {
			result.Outcome = GoalReached
			break
		}
	}
	result.Elapsed = c.clock.Now().Sub(start)

	c.halt()
	logger.WithFields(log.Fields{
		"phase":    result.Outcome,
		"rotation": result.Rotation,
		"rounds":   result.Rounds,
	}).Debug("Turn")
	c.metrics.turn(result.Outcome)
	c.emit(Event{
		Type:      EventTurn,
		Direction: result.Direction.String(),
		Heading:   heading,
		Outcome:   result.Outcome.String(),
		Rotation:  result.Rotation,
	})
	return result
}
