package vehicle

import "time"

type DistanceSensor interface {
	DistanceCm() int
}

// Head is the steerable mount carrying the forward sensor; 90 is straight ahead.
type Head interface {
	Aim(angle int)
}

// Drivetrain fans a command out to all four drive motors.
type Drivetrain interface {
	Stop()
	Forward(speed int)
	Backward(speed int)
	SpinLeft(speed int)
	SpinRight(speed int)
}

// OrientationEstimator accumulates rotation in degrees, positive to the
// left, since the last Reset.
type OrientationEstimator interface {
	Calibrate()
	Reset()
	Integrate(elapsed time.Duration) float64
}

type Speaker interface {
	Say(text string)
}

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Sensors groups the four range sensors by where they look.
type Sensors struct {
	Left    DistanceSensor
	Right   DistanceSensor
	Forward DistanceSensor
	Floor   DistanceSensor
}
