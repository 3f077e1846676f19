// Package response computes the magnitude frequency response of a filter
// from its impulse response.
//
// The filter is driven with a unit impulse for fftSize samples; the FFT of
// that response describes the comb shape a delay or flange imposes on the
// stream. Feeding a filter here mutates it, so analyze a dedicated instance,
// never the one owned by a running playback path.
package response

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-live/dsp/effects"
)

const minFFTSize = 16

// Result holds a single-sided magnitude response.
type Result struct {
	// Magnitude holds |H(k)| for bins 0..fftSize/2.
	Magnitude []float64

	// BinWidthHz is the frequency step between adjacent bins.
	BinWidthHz float64
}

// Magnitude computes the single-sided magnitude response of f.
//
// fftSize must be a power of two and at least 16; it bounds the longest lag
// the analysis can resolve, so pick it a few times larger than the filter's
// delay length.
func Magnitude(f effects.Filter, fftSize int, sampleRate float64) (*Result, error) {
	if f == nil {
		return nil, fmt.Errorf("response requires a filter")
	}
	if fftSize < minFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("response fft size must be a power of two >= %d: %d", minFFTSize, fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("response sample rate must be > 0: %f", sampleRate)
	}

	f.Reset()

	in := make([]complex128, fftSize)
	for i := 0; i < fftSize; i++ {
		x := float32(0)
		if i == 0 {
			x = 1
		}
		in[i] = complex(float64(f.ProcessSample(x)), 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return &Result{
		Magnitude:  mag,
		BinWidthHz: sampleRate / float64(fftSize),
	}, nil
}

// PeakBin returns the index of the largest magnitude bin above DC.
func (r *Result) PeakBin() int {
	best := 1
	for i := 2; i < len(r.Magnitude); i++ {
		if r.Magnitude[i] > r.Magnitude[best] {
			best = i
		}
	}
	return best
}

// FreqHz returns the center frequency of bin k.
func (r *Result) FreqHz(k int) float64 {
	return float64(k) * r.BinWidthHz
}
