package ttmotor

// TT gear motor behind an H-bridge whose speed and direction inputs are fed
// from PCA9685 channels running at 50Hz. The bridge reads the direction
// channels as logic levels: a 15ms pulse is high, 1ms is low.

type PulseOutput interface {
	SetPulseMs(ms float64) error
}

const (
	DIRECTION_HIGH_MS = 15
	DIRECTION_LOW_MS  = 1
	SPEED_MAX         = 19
)

type Motor struct {
	speed    PulseOutput
	forward  PulseOutput
	backward PulseOutput
}

func New(speed PulseOutput, forward PulseOutput, backward PulseOutput) *Motor {
	return &Motor{
		speed:    speed,
		forward:  forward,
		backward: backward,
	}
}

func (m *Motor) Stop() error {
	return m.drive(0, DIRECTION_HIGH_MS, DIRECTION_LOW_MS)
}

func (m *Motor) Forward(speed int) error {
	return m.drive(speed, DIRECTION_HIGH_MS, DIRECTION_LOW_MS)
}

func (m *Motor) Backward(speed int) error {
	return m.drive(speed, DIRECTION_LOW_MS, DIRECTION_HIGH_MS)
}

func (m *Motor) drive(speed int, forward float64, backward float64) error {
	speed = min(max(speed, 0), SPEED_MAX)
	if err := m.speed.SetPulseMs(float64(speed)); err != nil {
		return err
	}
	if err := m.forward.SetPulseMs(forward); err != nil {
		return err
	}
	return m.backward.SetPulseMs(backward)
}
