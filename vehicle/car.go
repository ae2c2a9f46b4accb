// Package vehicle is the navigation engine: it fuses the range sensors,
// searches for a free heading, runs gyro-timed turns and arbitrates between
// autonomous driving and voice commands.
//
// A Car is driven from a single control goroutine. Submit is the only
// method that may be called from elsewhere.
package vehicle

import (
	"time"

	log "github.com/sirupsen/logrus"

	"robotcar/command"
)

type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

const (
	MAX_SPEED_LEVEL = 19
	CENTER          = 90
	MAX_HEADING     = 180
)

type Config struct {
	ClearanceCm  int // obstacles closer than or at this distance block the way
	FloorDropCm  int // floor readings beyond this mean there is no floor
	Speed        int // drive speed level, 0-MAX_SPEED_LEVEL
	TurnSpeed    int
	BackUpTime   time.Duration
	TurnRounds   int
	TurnTimeout  time.Duration
	BackwardTime time.Duration
	StepTick     time.Duration
	VoiceTick    time.Duration
	LeftHeading  int
	RightHeading int
}

func DefaultConfig() Config {
	return Config{
		ClearanceCm:  30,
		FloorDropCm:  18,
		Speed:        11,
		TurnSpeed:    10,
		BackUpTime:   200 * time.Millisecond,
		TurnRounds:   50,
		TurnTimeout:  3000 * time.Millisecond,
		BackwardTime: 2 * time.Second,
		StepTick:     100 * time.Millisecond,
		VoiceTick:    250 * time.Millisecond,
		LeftHeading:  135,
		RightHeading: 45,
	}
}

type State struct {
	IsMoving bool      `json:"isMoving"`
	Speed    int       `json:"speed"`
	LastTurn Direction `json:"lastTurn"`
}

type Parts struct {
	Sensors Sensors
	Head    Head
	Drive   Drivetrain
	Gyro    OrientationEstimator
	Speaker Speaker
}

type Option func(*Car)

func WithClock(clock Clock) Option {
	return func(c *Car) {
		c.clock = clock
	}
}

// WithEvents sets a sink receiving every state change. It runs on the
// control goroutine and must not block.
func WithEvents(sink func(Event)) Option {
	return func(c *Car) {
		c.events = sink
	}
}

type Car struct {
	cfg     Config
	sensors Sensors
	head    Head
	drive   Drivetrain
	gyro    OrientationEstimator
	speaker Speaker
	clock   Clock
	events  func(Event)
	metrics *metrics
	pending command.Slot
	state   State
}

func New(cfg Config, parts Parts, opts ...Option) *Car {
	c := &Car{
		cfg:     cfg,
		sensors: parts.Sensors,
		head:    parts.Head,
		drive:   parts.Drive,
		gyro:    parts.Gyro,
		speaker: parts.Speaker,
		clock:   realClock{},
		events:  func(Event) {},
		metrics: newMetrics(),
		state: State{
			Speed:    min(max(cfg.Speed, 0), MAX_SPEED_LEVEL),
			LastTurn: Left,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SpeedLevel maps a 0-100 percentage onto the motor speed levels.
func SpeedLevel(percent int) int {
	percent = min(max(percent, 0), 100)
	return int(float64(percent) / 100.0 * MAX_SPEED_LEVEL)
}

func (c *Car) SetSpeed(percent int) {
	c.state.Speed = SpeedLevel(percent)
	log.WithField("level", c.state.Speed).Debug("Car speed is set")
}

func (c *Car) State() State {
	return c.state
}

func (c *Car) IsMoving() bool {
	return c.state.IsMoving
}

func (c *Car) MoveForward() {
	log.Debug("Moving forward")
	c.speaker.Say("Moving forward.")
	c.state.IsMoving = true
	c.drive.Forward(c.state.Speed)
	c.emit(Event{Type: EventMoving, Direction: "forward"})
}

func (c *Car) MoveBackward() {
	log.Debug("Moving backward")
	c.speaker.Say("Moving backward.")
	c.state.IsMoving = true
	c.drive.Backward(c.state.Speed)
	c.emit(Event{Type: EventMoving, Direction: "backward"})
}

// Stop does nothing when the car is already stopped.
func (c *Car) Stop() {
	if !c.state.IsMoving {
		return
	}
	log.Debug("Stopping")
	c.speaker.Say("Stopping.")
	c.state.IsMoving = false
	c.drive.Stop()
	c.metrics.stop()
	c.emit(Event{Type: EventStopped})
}

// halt stops the motors whether or not the car believes it is moving.
func (c *Car) halt() {
	if c.state.IsMoving {
		c.Stop()
		return
	}
	c.drive.Stop()
}

func (c *Car) emit(e Event) {
	e.Time = c.clock.Now()
	c.events(e)
}
