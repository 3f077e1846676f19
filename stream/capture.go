package stream

import (
	"errors"
	"sync/atomic"

	"github.com/cwbudde/algo-live/dsp/queue"
)

// CaptureSink forwards captured sample blocks into the queue.
//
// Process is the capture callback body: it must be called from exactly one
// goroutine (the capture context).
type CaptureSink struct {
	q       *queue.Queue
	dropped atomic.Uint64
}

// NewCaptureSink creates a sink feeding q.
func NewCaptureSink(q *queue.Queue) (*CaptureSink, error) {
	if q == nil {
		return nil, errors.New("capture sink requires a queue")
	}
	return &CaptureSink{q: q}, nil
}

// Process enqueues each sample of in, in order. Samples that do not fit are
// dropped silently; overflow bounds the hand-off latency instead of letting
// the capture side fall permanently behind.
func (c *CaptureSink) Process(in []float32) {
	var dropped uint64
	for _, s := range in {
		if !c.q.TryPush(s) {
			dropped++
		}
	}
	if dropped > 0 {
		c.dropped.Add(dropped)
	}
}

// Dropped returns the total number of samples dropped at the queue boundary.
// Safe from any goroutine.
func (c *CaptureSink) Dropped() uint64 {
	return c.dropped.Load()
}
