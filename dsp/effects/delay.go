package effects

import (
	"fmt"

	"github.com/cwbudde/algo-live/dsp/core"
)

// Delay is a feedback echo at a fixed lag.
//
// Each input reads the oldest sample h from a length-sized ring, emits
// y = x + h*decay and writes y back into the slot h vacated, so the echo
// repeats every length samples scaled by decay, decay², and so on.
type Delay struct {
	decay  float32
	buffer []float32
	pos    int
}

// NewDelay creates a delay of the given lag in samples.
func NewDelay(length int, decay float32) (*Delay, error) {
	if length <= 0 {
		return nil, fmt.Errorf("delay length must be > 0 samples: %d", length)
	}
	if decay < 0 || decay >= 1 || !core.IsFinite(decay) {
		return nil, fmt.Errorf("delay decay must be in [0, 1): %f", decay)
	}

	return &Delay{
		decay:  decay,
		buffer: make([]float32, length),
	}, nil
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(sample float32) float32 {
	last := d.buffer[d.pos]
	out := sample + last*d.decay

	d.buffer[d.pos] = out
	d.pos++
	if d.pos >= len(d.buffer) {
		d.pos = 0
	}

	return out
}

// ProcessInPlace applies the delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float32) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Reset clears delay history.
func (d *Delay) Reset() {
	core.Zero(d.buffer)
	d.pos = 0
}

// Length returns the lag in samples.
func (d *Delay) Length() int { return len(d.buffer) }

// Decay returns the feedback gain in [0, 1).
func (d *Delay) Decay() float32 { return d.decay }
