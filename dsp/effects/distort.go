package effects

import (
	"fmt"

	"github.com/cwbudde/algo-live/dsp/core"
)

// Distort applies linear gain followed by a hard clip at ±bound.
type Distort struct {
	gain  float32
	bound float32
}

// NewDistort creates a distortion with the given pre-clip gain and
// saturation bound in (0, 1].
func NewDistort(gain, bound float32) (*Distort, error) {
	if gain <= 0 || !core.IsFinite(gain) {
		return nil, fmt.Errorf("distort gain must be > 0 and finite: %f", gain)
	}
	if bound <= 0 || bound > 1 || !core.IsFinite(bound) {
		return nil, fmt.Errorf("distort bound must be in (0, 1]: %f", bound)
	}

	return &Distort{gain: gain, bound: bound}, nil
}

// ProcessSample processes one sample.
func (d *Distort) ProcessSample(sample float32) float32 {
	return core.Clamp(sample*d.gain, -d.bound, d.bound)
}

// ProcessInPlace applies distortion to buf in place.
func (d *Distort) ProcessInPlace(buf []float32) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Reset is a no-op; Distort is stateless.
func (*Distort) Reset() {}

// Gain returns the pre-clip gain.
func (d *Distort) Gain() float32 { return d.gain }

// Bound returns the saturation bound in (0, 1].
func (d *Distort) Bound() float32 { return d.bound }
