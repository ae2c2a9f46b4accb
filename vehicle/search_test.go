package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchHeadings(t *testing.T) {
	assert.Equal(t, [6]int{60, 30, 0, 120, 150, 180}, SearchHeadings(Left))
	assert.Equal(t, [6]int{120, 150, 180, 60, 30, 0}, SearchHeadings(Right))

	headings := SearchHeadings(Left)
	headings[0] = 90
	assert.Equal(t, 60, SearchHeadings(Left)[0])
}

func TestFindDirectionProbesAllHeadingsWhenBlocked(t *testing.T) {
	r := newRig()
	r.forward.distance = 10

	r.car.FindDirection()

	assert.Equal(t, []int{60, 30, 0, 120, 150, 180}, r.head.aims)
	assert.Empty(t, r.drive.calls)
	assert.Len(t, r.eventsOf(EventSearchMiss), 1)
	assert.Empty(t, r.eventsOf(EventTurn))
}

func TestFindDirectionPrefersOppositeSideAfterRightTurn(t *testing.T) {
	r := newRig()
	r.forward.distance = 10
	r.car.state.LastTurn = Right

	r.car.FindDirection()

	assert.Equal(t, []int{120, 150, 180, 60, 30, 0}, r.head.aims)
}

func TestFindDirectionTurnsToFirstClearHeading(t *testing.T) {
	r := newRig()
	r.sensorCost(10 * time.Millisecond)
	r.forward.readings = []int{10, 10}
	r.gyro.rate = -900

	r.car.FindDirection()

	require.GreaterOrEqual(t, len(r.head.aims), 4)
	assert.Equal(t, []int{60, 30, 0, CENTER}, r.head.aims[:4])
	for _, later := range []int{120, 150, 180} {
		assert.NotContains(t, r.head.aims, later)
	}
	turns := r.eventsOf(EventTurn)
	require.Len(t, turns, 1)
	assert.Equal(t, 0, turns[0].Heading)
	assert.Equal(t, "goalReached", turns[0].Outcome)
	assert.Equal(t, Right, r.car.State().LastTurn)

	assert.Equal(t, "forward:11", r.drive.calls[len(r.drive.calls)-1])
	assert.True(t, r.car.IsMoving())
}

func TestFindDirectionStaysPutWithoutFloor(t *testing.T) {
	r := newRig()
	r.sensorCost(10 * time.Millisecond)
	r.gyro.rate = -900
	r.floor.distance = 40

	r.car.FindDirection()

	assert.Equal(t, "stop", r.drive.calls[len(r.drive.calls)-1])
	assert.False(t, r.car.IsMoving())
	assert.Len(t, r.eventsOf(EventNoFloor), 1)
}
