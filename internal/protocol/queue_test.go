package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainsFIFO(t *testing.T) {
	q := NewQueue()
	q.Push(NewMove(DirLeft))
	q.Push(NewMove(DirUp))
	q.Push(NewPrepareToBattle(BattleDefence, 3))

	var got []Outbound
	n, err := q.Drain(func(m Outbound) error {
		got = append(got, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []Outbound{NewMove(DirLeft), NewMove(DirUp), NewPrepareToBattle(BattleDefence, 3)}, got)
	assert.Equal(t, 0, q.Len())

	enq, sent := q.Stats()
	assert.Equal(t, uint64(3), enq)
	assert.Equal(t, uint64(3), sent)
}

func TestQueueKeepsRemainderOnError(t *testing.T) {
	q := NewQueue()
	q.Push(NewMove(DirLeft))
	q.Push(NewMove(DirRight))
	q.Push(NewMove(DirDown))

	boom := errors.New("write failed")
	calls := 0
	n, err := q.Drain(func(m Outbound) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Equal(t, []Outbound{NewMove(DirRight), NewMove(DirDown)}, q.Pending())

	// next flush resumes where the failed one stopped
	q.Push(NewMove(DirUp))
	var got []Outbound
	_, err = q.Drain(func(m Outbound) error {
		got = append(got, m)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Outbound{NewMove(DirRight), NewMove(DirDown), NewMove(DirUp)}, got)
}

func TestQueueDrainEmpty(t *testing.T) {
	q := NewQueue()
	n, err := q.Drain(func(Outbound) error {
		t.Fatal("send must not be called")
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
