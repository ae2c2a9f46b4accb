package ttmotor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPulse struct {
	values []float64
}

func (r *recordedPulse) SetPulseMs(ms float64) error {
	r.values = append(r.values, ms)
	return nil
}

func (r *recordedPulse) last() float64 {
	return r.values[len(r.values)-1]
}

func TestMotorDirections(t *testing.T) {
	speed, fwd, back := &recordedPulse{}, &recordedPulse{}, &recordedPulse{}
	m := New(speed, fwd, back)

	require.NoError(t, m.Forward(11))
	assert.Equal(t, 11.0, speed.last())
	assert.Equal(t, float64(DIRECTION_HIGH_MS), fwd.last())
	assert.Equal(t, float64(DIRECTION_LOW_MS), back.last())

	require.NoError(t, m.Backward(25))
	assert.Equal(t, float64(SPEED_MAX), speed.last())
	assert.Equal(t, float64(DIRECTION_LOW_MS), fwd.last())
	assert.Equal(t, float64(DIRECTION_HIGH_MS), back.last())

	require.NoError(t, m.Stop())
	assert.Equal(t, 0.0, speed.last())
}
