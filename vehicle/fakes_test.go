package vehicle

import (
	"fmt"
	"time"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
}

// fakeSensor returns queued readings first, then distance. Every read
// advances the clock by cost.
type fakeSensor struct {
	distance int
	readings []int
	calls    int
	cost     time.Duration
	clock    *fakeClock
}

func (s *fakeSensor) DistanceCm() int {
	s.calls++
	if s.clock != nil {
		s.clock.now = s.clock.now.Add(s.cost)
	}
	if len(s.readings) > 0 {
		d := s.readings[0]
		s.readings = s.readings[1:]
		return d
	}
	return s.distance
}

type fakeHead struct {
	aims []int
}

func (h *fakeHead) Aim(angle int) { h.aims = append(h.aims, angle) }

type fakeDrive struct {
	calls []string
}

func (d *fakeDrive) Stop()               { d.calls = append(d.calls, "stop") }
func (d *fakeDrive) Forward(speed int)   { d.calls = append(d.calls, fmt.Sprintf("forward:%d", speed)) }
func (d *fakeDrive) Backward(speed int)  { d.calls = append(d.calls, fmt.Sprintf("backward:%d", speed)) }
func (d *fakeDrive) SpinLeft(speed int)  { d.calls = append(d.calls, fmt.Sprintf("spinLeft:%d", speed)) }
func (d *fakeDrive) SpinRight(speed int) { d.calls = append(d.calls, fmt.Sprintf("spinRight:%d", speed)) }

func (d *fakeDrive) count(call string) int {
	n := 0
	for _, c := range d.calls {
		if c == call {
			n++
		}
	}
	return n
}

// fakeGyro turns at a constant rate in degrees per second.
type fakeGyro struct {
	rate         float64
	rotation     float64
	calibrations int
	resets       int
}

func (g *fakeGyro) Calibrate() { g.calibrations++ }

func (g *fakeGyro) Reset() {
	g.resets++
	g.rotation = 0
}

func (g *fakeGyro) Integrate(elapsed time.Duration) float64 {
	g.rotation += g.rate * elapsed.Seconds()
	return g.rotation
}

type fakeSpeaker struct {
	said []string
}

func (s *fakeSpeaker) Say(text string) { s.said = append(s.said, text) }

type rig struct {
	car     *Car
	clock   *fakeClock
	left    *fakeSensor
	right   *fakeSensor
	forward *fakeSensor
	floor   *fakeSensor
	head    *fakeHead
	drive   *fakeDrive
	gyro    *fakeGyro
	speaker *fakeSpeaker
	events  []Event
}

// newRig builds a car on open, flat ground: every range sensor reads 100cm
// and the floor sensor 5cm.
func newRig() *rig {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := &rig{
		clock:   clock,
		left:    &fakeSensor{distance: 100, clock: clock},
		right:   &fakeSensor{distance: 100, clock: clock},
		forward: &fakeSensor{distance: 100, clock: clock},
		floor:   &fakeSensor{distance: 5, clock: clock},
		head:    &fakeHead{},
		drive:   &fakeDrive{},
		gyro:    &fakeGyro{},
		speaker: &fakeSpeaker{},
	}
	r.car = New(DefaultConfig(), Parts{
		Sensors: Sensors{Left: r.left, Right: r.right, Forward: r.forward, Floor: r.floor},
		Head:    r.head,
		Drive:   r.drive,
		Gyro:    r.gyro,
		Speaker: r.speaker,
	}, WithClock(clock), WithEvents(func(e Event) {
		r.events = append(r.events, e)
	}))
	return r
}

// sensorCost makes each range reading take d.
func (r *rig) sensorCost(d time.Duration) {
	for _, s := range []*fakeSensor{r.left, r.right, r.forward, r.floor} {
		s.cost = d
	}
}

func (r *rig) eventsOf(t EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
