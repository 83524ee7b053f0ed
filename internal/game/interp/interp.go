// Package interp smooths discrete position and rotation changes into
// continuous visual motion.
//
// Each tick moves the displayed value a fixed fraction of the remaining
// distance toward its target (exponential approach). Once the value is within
// epsilon of the target it is snapped exactly and the entry is dropped.
package interp

const (
	// DefaultDivisor is the smoothing divisor used for position entries and
	// for rotation requests that do not specify a usable speed.
	DefaultDivisor = 5.0

	// PositionEpsilonSq is the squared pixel distance below which a position snaps
	PositionEpsilonSq = 0.1

	// RotationEpsilon is the angular distance (degrees) below which a rotation snaps
	RotationEpsilon = 1.0
)

// Positioner is a visual handle whose displayed position can be read and written.
type Positioner interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// Rotator is a visual handle whose displayed rotation (degrees) can be read and written.
type Rotator interface {
	Rotation() float64
	SetRotation(deg float64)
}

type move struct {
	handle  Positioner
	targetX float64
	targetY float64
}

type turn struct {
	handle Rotator
	target float64
	speed  float64
}

// Animator holds at most one position entry and one rotation entry per key.
// It is not safe for concurrent use; the owning scheduler serializes access.
type Animator[K comparable] struct {
	divisor float64
	moves   map[K]*move
	turns   map[K]*turn
}

// New creates an animator. A divisor below 1 falls back to DefaultDivisor.
func New[K comparable](divisor float64) *Animator[K] {
	if divisor < 1 {
		divisor = DefaultDivisor
	}
	return &Animator[K]{
		divisor: divisor,
		moves:   make(map[K]*move),
		turns:   make(map[K]*turn),
	}
}

// MoveTo starts (or replaces) the position interpolation for key.
// The handle's current displayed position is the starting point.
func (a *Animator[K]) MoveTo(key K, h Positioner, x, y float64) {
	a.moves[key] = &move{handle: h, targetX: x, targetY: y}
}

// RotateTo starts (or replaces) the rotation interpolation for key.
func (a *Animator[K]) RotateTo(key K, h Rotator, angle, speed float64) {
	if speed < 1 {
		speed = DefaultDivisor
	}
	a.turns[key] = &turn{handle: h, target: angle, speed: speed}
}

// Cancel drops any in-flight entries for key, leaving the handle where it is.
func (a *Animator[K]) Cancel(key K) {
	delete(a.moves, key)
	delete(a.turns, key)
}

// Moving reports whether key has a position entry in flight
func (a *Animator[K]) Moving(key K) bool {
	_, ok := a.moves[key]
	return ok
}

// Rotating reports whether key has a rotation entry in flight
func (a *Animator[K]) Rotating(key K) bool {
	_, ok := a.turns[key]
	return ok
}

// Len returns the number of in-flight entries across both tables
func (a *Animator[K]) Len() int {
	return len(a.moves) + len(a.turns)
}

// Step advances every entry by one tick and returns how many remain in flight.
func (a *Animator[K]) Step() int {
	for key, m := range a.moves {
		x, y := m.handle.Position()
		dx, dy := m.targetX-x, m.targetY-y
		if dx*dx+dy*dy < PositionEpsilonSq {
			m.handle.SetPosition(m.targetX, m.targetY)
			delete(a.moves, key)
			continue
		}
		m.handle.SetPosition(Approach(x, m.targetX, a.divisor), Approach(y, m.targetY, a.divisor))
	}

	for key, t := range a.turns {
		r := t.handle.Rotation()
		diff := t.target - r
		if diff < 0 {
			diff = -diff
		}
		if diff < RotationEpsilon {
			t.handle.SetRotation(t.target)
			delete(a.turns, key)
			continue
		}
		t.handle.SetRotation(Approach(r, t.target, t.speed))
	}

	return a.Len()
}

// Approach returns (v*(n-1) + t) / n, one step of the geometric approach of v toward t.
func Approach(v, t, n float64) float64 {
	return (v*(n-1) + t) / n
}
