package servo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeOutput struct {
	pulses []float64
	err    error
}

func (f *fakeOutput) SetPulseMs(ms float64) error {
	if f.err != nil {
		return f.err
	}
	f.pulses = append(f.pulses, ms)
	return nil
}

func TestPulseMs(t *testing.T) {
	assert.InDelta(t, 0.5, PulseMs(0), 1e-9)
	assert.InDelta(t, 1.5, PulseMs(90), 1e-9)
	assert.InDelta(t, 2.5, PulseMs(180), 1e-9)
	assert.InDelta(t, 2.5, PulseMs(270), 1e-9)
	assert.InDelta(t, 0.5, PulseMs(-10), 1e-9)
}

func TestAimSkipsUnchangedPosition(t *testing.T) {
	out := &fakeOutput{}
	var slept time.Duration
	s := New(out).WithSleep(func(d time.Duration) { slept += d })

	s.Aim(90)
	s.Aim(90)
	s.Aim(60)

	assert.Equal(t, []float64{1.5, PulseMs(60)}, out.pulses)
	assert.Equal(t, 2*SETTLE_TIME, slept)
	assert.Equal(t, 60, s.Position())
}

func TestAimFailureKeepsPosition(t *testing.T) {
	out := &fakeOutput{err: errors.New("bus down")}
	s := New(out).WithSleep(func(time.Duration) {})

	s.Aim(30)
	assert.Equal(t, -1, s.Position())
}
