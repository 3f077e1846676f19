// Package level provides a running peak/RMS meter for audio blocks.
package level

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-live/dsp/core"
)

// Meter accumulates peak and RMS statistics over observed blocks.
//
// Observe is allocation-free once constructed: blocks are widened into a
// preallocated float64 scratch for the vecmath kernels. Observe and Reset
// belong to a single owner goroutine, the one running the audio callback;
// the accumulators are atomics so Peak, RMS and Observed may be read from
// any goroutine while observation is in flight.
type Meter struct {
	scratch []float64

	// Float64 bits, single writer (the observer), any reader.
	peakBits  atomic.Uint64
	sumSqBits atomic.Uint64
	observed  atomic.Uint64
}

// New creates a meter able to observe blocks up to maxBlock samples.
func New(maxBlock int) (*Meter, error) {
	if maxBlock <= 0 {
		return nil, fmt.Errorf("meter max block must be > 0: %d", maxBlock)
	}
	return &Meter{scratch: make([]float64, maxBlock)}, nil
}

// Observe folds one block into the running statistics. Blocks longer than
// the configured maximum are truncated to it. Owner goroutine only.
func (m *Meter) Observe(block []float32) {
	n := core.Widen(m.scratch, block)
	if n == 0 {
		return
	}

	s := m.scratch[:n]

	if p := vecmath.MaxAbs(s); p > math.Float64frombits(m.peakBits.Load()) {
		m.peakBits.Store(math.Float64bits(p))
	}

	sumSq := math.Float64frombits(m.sumSqBits.Load()) + vecmath.DotProduct(s, s)
	m.sumSqBits.Store(math.Float64bits(sumSq))
	m.observed.Add(uint64(n))
}

// Peak returns the largest absolute sample seen since the last Reset.
// Safe from any goroutine.
func (m *Meter) Peak() float64 {
	return math.Float64frombits(m.peakBits.Load())
}

// RMS returns the root mean square over all observed samples.
// Safe from any goroutine.
func (m *Meter) RMS() float64 {
	n := m.observed.Load()
	if n == 0 {
		return 0
	}
	return math.Sqrt(math.Float64frombits(m.sumSqBits.Load()) / float64(n))
}

// Observed returns the number of samples folded in since the last Reset.
// Safe from any goroutine.
func (m *Meter) Observed() uint64 {
	return m.observed.Load()
}

// Reset clears the statistics. Owner goroutine only.
func (m *Meter) Reset() {
	m.peakBits.Store(0)
	m.sumSqBits.Store(0)
	m.observed.Store(0)
}
