// Package pool bounds the number of live short-lived instances (visual
// effects) while reusing them.
//
// Instances are addressed by integer handles into the entry table. When every
// entry is active, the least recently (re)activated one is evicted and handed
// out again; this cuts its previous use short by design of the caller.
package pool

import "time"

// Handle identifies a pool entry. Handles stay valid for the pool's lifetime
// because the table never shrinks.
type Handle int

// InvalidHandle is never returned by Retrieve
const InvalidHandle Handle = -1

type entry[T any] struct {
	stamp    uint64
	lastUsed time.Time
	active   bool
	instance T
}

// Option configures a Pool
type Option func(*options)

type options struct {
	limit int
	now   func() time.Time
}

// WithLimit lets the pool grow up to n entries when every entry is active.
// Without it the pool only grows when it has no entries at all.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithClock overrides the time source used for last-used stamps
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Pool is a grow-only table of reusable instances.
// It is not safe for concurrent use.
type Pool[T any] struct {
	factory   func() T
	entries   []entry[T]
	limit     int
	seq       uint64
	now       func() time.Time
	evictions uint64
}

// New creates a pool pre-filled with size instances from factory.
func New[T any](factory func() T, size int, opts ...Option) *Pool[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if size < 0 {
		size = 0
	}
	if o.limit < size {
		o.limit = size
	}

	p := &Pool[T]{
		factory: factory,
		entries: make([]entry[T], size, o.limit),
		limit:   o.limit,
		now:     o.now,
	}
	for i := range p.entries {
		p.entries[i].instance = factory()
	}
	return p
}

// Retrieve returns the first inactive instance, marking it active.
// When none is inactive the pool grows (below its limit, or when empty) or
// evicts the entry with the oldest activation stamp.
func (p *Pool[T]) Retrieve() (Handle, T) {
	found := -1
	oldest := -1
	for i := range p.entries {
		e := &p.entries[i]
		if !e.active {
			found = i
			break
		}
		if oldest < 0 || e.stamp < p.entries[oldest].stamp {
			oldest = i
		}
	}

	if found < 0 {
		if len(p.entries) == 0 || len(p.entries) < p.limit {
			p.entries = append(p.entries, entry[T]{instance: p.factory()})
			found = len(p.entries) - 1
		} else {
			found = oldest
			p.evictions++
		}
	}

	p.seq++
	e := &p.entries[found]
	e.active = true
	e.stamp = p.seq
	e.lastUsed = p.now()
	return Handle(found), e.instance
}

// Release marks the entry inactive. Unknown handles are ignored and reported as false.
func (p *Pool[T]) Release(h Handle) bool {
	if h < 0 || int(h) >= len(p.entries) {
		return false
	}
	p.entries[h].active = false
	return true
}

// Get returns the instance behind h
func (p *Pool[T]) Get(h Handle) (T, bool) {
	if h < 0 || int(h) >= len(p.entries) {
		var zero T
		return zero, false
	}
	return p.entries[h].instance, true
}

// IsActive reports whether h is currently handed out
func (p *Pool[T]) IsActive(h Handle) bool {
	if h < 0 || int(h) >= len(p.entries) {
		return false
	}
	return p.entries[h].active
}

// LastUsed returns when h was last (re)activated
func (p *Pool[T]) LastUsed(h Handle) time.Time {
	if h < 0 || int(h) >= len(p.entries) {
		return time.Time{}
	}
	return p.entries[h].lastUsed
}

// EachActive calls fn for every active entry in table order.
// fn may call Release on the handle it is given.
func (p *Pool[T]) EachActive(fn func(Handle, T)) {
	for i := range p.entries {
		if p.entries[i].active {
			fn(Handle(i), p.entries[i].instance)
		}
	}
}

// Len returns the number of entries (active or not)
func (p *Pool[T]) Len() int {
	return len(p.entries)
}

// ActiveCount returns the number of active entries
func (p *Pool[T]) ActiveCount() int {
	n := 0
	for i := range p.entries {
		if p.entries[i].active {
			n++
		}
	}
	return n
}

// Evictions returns how many retrievals reused an entry that was still active
func (p *Pool[T]) Evictions() uint64 {
	return p.evictions
}
