package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fx struct{ id int }

func counter() (func() *fx, *int) {
	n := 0
	return func() *fx {
		n++
		return &fx{id: n}
	}, &n
}

func TestNewPrefills(t *testing.T) {
	factory, made := counter()
	p := New(factory, 10)

	assert.Equal(t, 10, p.Len())
	assert.Equal(t, 10, *made)
	assert.Equal(t, 0, p.ActiveCount())
}

// TestRetrieveBound checks min(m,k) distinct instances, then reuse without growth
func TestRetrieveBound(t *testing.T) {
	const k = 4
	factory, made := counter()
	p := New(factory, k)

	seen := map[*fx]bool{}
	handles := make([]Handle, 0, k)
	for i := 0; i < k; i++ {
		h, inst := p.Retrieve()
		require.False(t, seen[inst], "retrieval %d returned an active instance", i)
		seen[inst] = true
		handles = append(handles, h)
	}
	assert.Equal(t, k, p.ActiveCount())

	// saturated: oldest activation gets evicted, in order
	for i := 0; i < 2*k; i++ {
		h, inst := p.Retrieve()
		assert.True(t, seen[inst], "saturated retrieval must reuse")
		assert.Equal(t, handles[i%k], h)
	}

	assert.Equal(t, k, p.Len())
	assert.Equal(t, k, *made)
	assert.Equal(t, uint64(2*k), p.Evictions())
}

func TestRetrievePrefersInactive(t *testing.T) {
	factory, _ := counter()
	p := New(factory, 3)

	h0, _ := p.Retrieve()
	h1, _ := p.Retrieve()
	h2, _ := p.Retrieve()
	require.True(t, p.Release(h1))

	h, _ := p.Retrieve()
	assert.Equal(t, h1, h)
	assert.Equal(t, uint64(0), p.Evictions())

	// h0 is now the oldest stamp
	h, _ = p.Retrieve()
	assert.Equal(t, h0, h)
	_ = h2
}

func TestGrowsWhenEmpty(t *testing.T) {
	factory, made := counter()
	p := New(factory, 0)

	h, inst := p.Retrieve()
	assert.Equal(t, Handle(0), h)
	assert.NotNil(t, inst)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 1, *made)
}

func TestGrowsUpToLimit(t *testing.T) {
	factory, _ := counter()
	p := New(factory, 2, WithLimit(3))

	p.Retrieve()
	p.Retrieve()
	h, _ := p.Retrieve()
	assert.Equal(t, Handle(2), h)
	assert.Equal(t, 3, p.Len())

	h, _ = p.Retrieve()
	assert.Equal(t, Handle(0), h, "at the limit the oldest is evicted")
	assert.Equal(t, 3, p.Len())
}

func TestReleaseUnknownHandle(t *testing.T) {
	factory, _ := counter()
	p := New(factory, 1)

	assert.False(t, p.Release(InvalidHandle))
	assert.False(t, p.Release(Handle(5)))
	assert.False(t, p.IsActive(Handle(5)))

	_, ok := p.Get(Handle(5))
	assert.False(t, ok)
}

func TestLastUsedStamp(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	factory, _ := counter()
	p := New(factory, 1, WithClock(func() time.Time { return now }))

	h, _ := p.Retrieve()
	assert.Equal(t, now, p.LastUsed(h))
}

func TestEachActiveAllowsRelease(t *testing.T) {
	factory, _ := counter()
	p := New(factory, 3)
	p.Retrieve()
	p.Retrieve()

	visited := 0
	p.EachActive(func(h Handle, _ *fx) {
		visited++
		p.Release(h)
	})
	assert.Equal(t, 2, visited)
	assert.Equal(t, 0, p.ActiveCount())
}
