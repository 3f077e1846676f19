package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-live/dsp/core"
)

const (
	defaultFlangeLength    = 10000
	defaultFlangeBaseDelay = 1000
	defaultFlangeDecay     = 0.7
	defaultFlangeRateHz    = 0.25
	defaultFlangeAmplitude = 50
)

// FlangeOption mutates flange construction parameters.
type FlangeOption func(*flangeConfig) error

type flangeConfig struct {
	length    int
	baseDelay int
	decay     float32
	rateHz    float64
	amplitude float64
}

func defaultFlangeConfig() flangeConfig {
	return flangeConfig{
		length:    defaultFlangeLength,
		baseDelay: defaultFlangeBaseDelay,
		decay:     defaultFlangeDecay,
		rateHz:    defaultFlangeRateHz,
		amplitude: defaultFlangeAmplitude,
	}
}

// WithFlangeLength sets the history ring size in samples.
func WithFlangeLength(length int) FlangeOption {
	return func(cfg *flangeConfig) error {
		if length <= 0 {
			return fmt.Errorf("flange length must be > 0 samples: %d", length)
		}

		cfg.length = length

		return nil
	}
}

// WithFlangeBaseDelay sets the minimum lag in samples.
func WithFlangeBaseDelay(baseDelay int) FlangeOption {
	return func(cfg *flangeConfig) error {
		if baseDelay < 0 {
			return fmt.Errorf("flange base delay must be >= 0 samples: %d", baseDelay)
		}

		cfg.baseDelay = baseDelay

		return nil
	}
}

// WithFlangeDecay sets the feedback gain in [0, 1).
func WithFlangeDecay(decay float32) FlangeOption {
	return func(cfg *flangeConfig) error {
		if decay < 0 || decay >= 1 || !core.IsFinite(decay) {
			return fmt.Errorf("flange decay must be in [0, 1): %f", decay)
		}

		cfg.decay = decay

		return nil
	}
}

// WithFlangeRateHz sets the LFO frequency in Hz.
func WithFlangeRateHz(rateHz float64) FlangeOption {
	return func(cfg *flangeConfig) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("flange rate must be > 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithFlangeAmplitude sets the LFO sweep amplitude in samples.
// The lag oscillates between baseDelay and baseDelay + 2*amplitude.
func WithFlangeAmplitude(amplitude float64) FlangeOption {
	return func(cfg *flangeConfig) error {
		if amplitude < 0 || math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
			return fmt.Errorf("flange amplitude must be >= 0 and finite: %f", amplitude)
		}

		cfg.amplitude = amplitude

		return nil
	}
}

// Flange is an echo whose lag is swept by a cosine LFO.
//
// The lag traces round((cos(t*coeff)+1)*amplitude) + baseDelay samples,
// where coeff maps the elapsed-sample clock t to one LFO cycle per
// sampleRate/rateHz samples. The swept tap produces the classic comb whose
// notches move with the LFO.
type Flange struct {
	decay     float32
	baseDelay int
	amplitude float64
	coeff     float64

	t      float64
	buffer []float32
	pos    int
}

// NewFlange creates a flange with practical defaults and optional overrides.
func NewFlange(sampleRate float64, opts ...FlangeOption) (*Flange, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("flange sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultFlangeConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Flange{
		decay:     cfg.decay,
		baseDelay: cfg.baseDelay,
		amplitude: cfg.amplitude,
		coeff:     2 * math.Pi * cfg.rateHz / sampleRate,
		buffer:    make([]float32, cfg.length),
	}, nil
}

// ProcessSample processes one sample.
func (f *Flange) ProcessSample(sample float32) float32 {
	last := f.readBack(f.Offset(f.t))
	out := sample + last*f.decay

	f.buffer[f.pos] = out
	f.pos++
	if f.pos >= len(f.buffer) {
		f.pos = 0
	}

	f.t++

	return out
}

// ProcessInPlace applies flanging to buf in place.
func (f *Flange) ProcessInPlace(buf []float32) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// Reset clears history and rewinds the LFO clock.
func (f *Flange) Reset() {
	core.Zero(f.buffer)
	f.pos = 0
	f.t = 0
}

// Offset returns the reverse offset in samples at elapsed time t:
// round((cos(t*coeff)+1)*amplitude) + baseDelay, clamped to the ring length
// so a large amplitude or base lag can never address outside history.
func (f *Flange) Offset(t float64) int {
	r := int(math.Round((math.Cos(t*f.coeff)+1)*f.amplitude)) + f.baseDelay

	if r < 0 {
		r = 0
	}
	if r >= len(f.buffer) {
		r = len(f.buffer) - 1
	}

	return r
}

// Length returns the history ring size in samples.
func (f *Flange) Length() int { return len(f.buffer) }

// Decay returns the feedback gain in [0, 1).
func (f *Flange) Decay() float32 { return f.decay }

// readBack reads reverse samples behind the write cursor, wrapping around
// the ring. reverse is already clamped to [0, len) by Offset.
func (f *Flange) readBack(reverse int) float32 {
	idx := f.pos - reverse
	if idx < 0 {
		idx += len(f.buffer)
	}

	return f.buffer[idx]
}
