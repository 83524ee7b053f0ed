package protocol

// Queue buffers outbound requests between local input and the next tick's flush.
// Requests are sent in the order they were pushed. The queue is unbounded and
// not safe for concurrent use; the scheduler goroutine owns it.
type Queue struct {
	items []Outbound

	// Metrics
	enqueued uint64
	sent     uint64
}

// NewQueue creates an empty outbound queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a request to the back of the queue
func (q *Queue) Push(m Outbound) {
	q.items = append(q.items, m)
	q.enqueued++
}

// Len returns the number of pending requests
func (q *Queue) Len() int {
	return len(q.items)
}

// Pending returns a copy of the pending requests, front first
func (q *Queue) Pending() []Outbound {
	out := make([]Outbound, len(q.items))
	copy(out, q.items)
	return out
}

// Drain hands every pending request to send, front first. If send fails, the
// failed request and everything behind it stay queued and the error is returned.
func (q *Queue) Drain(send func(Outbound) error) (int, error) {
	for i, m := range q.items {
		if err := send(m); err != nil {
			n := copy(q.items, q.items[i:])
			clear(q.items[n:])
			q.items = q.items[:n]
			q.sent += uint64(i)
			return i, err
		}
	}

	n := len(q.items)
	clear(q.items)
	q.items = q.items[:0]
	q.sent += uint64(n)
	return n, nil
}

// Stats returns (enqueued, sent) totals
func (q *Queue) Stats() (enqueued, sent uint64) {
	return q.enqueued, q.sent
}
