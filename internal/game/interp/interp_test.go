package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct {
	x, y, rot float64
	writes    int
}

func (h *handle) Position() (float64, float64) { return h.x, h.y }
func (h *handle) SetPosition(x, y float64)     { h.x, h.y = x, y; h.writes++ }
func (h *handle) Rotation() float64            { return h.rot }
func (h *handle) SetRotation(deg float64)      { h.rot = deg; h.writes++ }

func TestApproachNeverOvershoots(t *testing.T) {
	v := 0.0
	for i := 0; i < 100; i++ {
		next := Approach(v, 100, DefaultDivisor)
		require.GreaterOrEqual(t, next, v)
		require.LessOrEqual(t, next, 100.0)
		v = next
	}
}

// TestPositionConvergence verifies a 100px move reaches the target exactly in bounded ticks
func TestPositionConvergence(t *testing.T) {
	a := New[string](DefaultDivisor)
	h := &handle{}
	a.MoveTo("a", h, 100, 0)

	ticks := 0
	for a.Moving("a") {
		a.Step()
		ticks++
		require.LessOrEqual(t, ticks, 30, "interpolation did not converge")
	}

	assert.Equal(t, 100.0, h.x)
	assert.Equal(t, 0.0, h.y)
	assert.GreaterOrEqual(t, ticks, 20)
}

func TestRotationConvergence(t *testing.T) {
	a := New[int](DefaultDivisor)
	h := &handle{}
	a.RotateTo(1, h, 270, 5)

	ticks := 0
	for a.Rotating(1) {
		a.Step()
		ticks++
		require.LessOrEqual(t, ticks, 30)
	}
	assert.Equal(t, 270.0, h.rot)

	// and back again
	a.RotateTo(1, h, 0, 5)
	for a.Step() > 0 {
	}
	assert.Equal(t, 0.0, h.rot)
}

func TestRotationSnapsWithinEpsilon(t *testing.T) {
	a := New[int](DefaultDivisor)
	h := &handle{rot: 269.5}
	a.RotateTo(1, h, 270, 5)

	assert.Equal(t, 0, a.Step())
	assert.Equal(t, 270.0, h.rot)
}

// TestMoveReplacesInFlight verifies a new trigger starts from the displayed value, not the old target
func TestMoveReplacesInFlight(t *testing.T) {
	a := New[string](DefaultDivisor)
	h := &handle{}
	a.MoveTo("a", h, 100, 0)
	a.Step()
	a.Step()
	displayed := h.x
	require.Greater(t, displayed, 0.0)
	require.Less(t, displayed, 100.0)

	a.MoveTo("a", h, 0, 50)
	assert.Equal(t, 1, a.Len(), "one position entry per key")

	a.Step()
	assert.InDelta(t, Approach(displayed, 0, DefaultDivisor), h.x, 1e-9)
	assert.InDelta(t, Approach(0, 50, DefaultDivisor), h.y, 1e-9)
}

func TestIndependentTables(t *testing.T) {
	a := New[string](DefaultDivisor)
	h := &handle{}
	a.MoveTo("a", h, 10, 10)
	a.RotateTo("a", h, 270, 0)
	assert.Equal(t, 2, a.Len())

	a.Cancel("a")
	assert.Equal(t, 0, a.Len())
	assert.False(t, a.Moving("a"))
	assert.False(t, a.Rotating("a"))
}

func TestDivisorFallback(t *testing.T) {
	a := New[string](0)
	assert.Equal(t, DefaultDivisor, a.divisor)
}
