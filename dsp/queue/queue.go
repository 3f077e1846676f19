package queue

import (
	"fmt"
	"sync/atomic"
)

// Queue is a bounded SPSC FIFO of float32 samples.
//
// The two cursors increase monotonically; their difference is the number of
// outstanding samples. The producer is the only writer of writePos, the
// consumer the only writer of readPos, so plain atomic loads and stores
// suffice without a mutex or CAS loop. Exactly one producer goroutine and one consumer
// goroutine may use a Queue; anything else is outside the contract.
type Queue struct {
	// Cursors live on separate cache lines to avoid false sharing between
	// the capture and playback threads.
	writePos atomic.Uint64
	_        [56]byte
	readPos  atomic.Uint64
	_        [56]byte

	buf []float32
}

// New returns a queue holding at most capacity samples.
//
// Capacity is exact: pushing capacity+1 samples without an intervening pop
// retains the first capacity samples and drops the last.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("queue capacity must be > 0: %d", capacity)
	}
	return &Queue{buf: make([]float32, capacity)}, nil
}

// TryPush appends one sample and reports whether it fit.
// A false return means the queue was full and the sample was dropped.
// Producer side only.
func (q *Queue) TryPush(s float32) bool {
	w := q.writePos.Load()
	r := q.readPos.Load()

	if w-r == uint64(len(q.buf)) {
		return false
	}

	q.buf[w%uint64(len(q.buf))] = s
	q.writePos.Store(w + 1)
	return true
}

// TryPop removes and returns the oldest sample. The second return is false
// when the queue is empty. Consumer side only.
func (q *Queue) TryPop() (float32, bool) {
	r := q.readPos.Load()
	w := q.writePos.Load()

	if w == r {
		return 0, false
	}

	s := q.buf[r%uint64(len(q.buf))]
	q.readPos.Store(r + 1)
	return s, true
}

// Len returns the number of outstanding samples.
// Safe from either side; the value may be stale by the time it is used.
func (q *Queue) Len() int {
	return int(q.writePos.Load() - q.readPos.Load())
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}
