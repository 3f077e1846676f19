// Package wavio runs the live signal path over a WAV file instead of
// devices: decode, block through the capture sink and playback source in
// lockstep, encode. It exists so a filter setup can be auditioned and the
// full path exercised without audio hardware.
package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-live/measure/level"
	"github.com/cwbudde/algo-live/stream"
)

const outBitDepth = 16

// Summary reports what a file run did.
type Summary struct {
	Frames     int
	SampleRate int
	PeakIn     float64
	PeakOut    float64
	Dropped    uint64
	Underruns  uint64
}

// Pipeline bundles the pieces a file run needs. The queue capacity must be
// at least blockSize, or every block would shed samples the live path only
// sheds under real scheduling pressure.
type Pipeline struct {
	Sink   *stream.CaptureSink
	Source *stream.PlaybackSource
}

// Builder constructs the pipeline once the file's sample rate is known, so
// a flange built for a 44.1 kHz file sweeps at the same speed it would live.
type Builder func(sampleRate float64) (Pipeline, error)

// ProcessFile streams the first channel of the WAV at inPath through the
// built pipeline and writes the result to outPath as 16-bit mono PCM at the
// source rate.
func ProcessFile(inPath, outPath string, build Builder, blockSize int) (*Summary, error) {
	if build == nil {
		return nil, fmt.Errorf("wavio requires a pipeline builder")
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be > 0 frames: %d", blockSize)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", inPath)
	}

	format := dec.Format()
	channels := format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("no channels in %s", inPath)
	}

	scale := float32(int(1) << (dec.BitDepth - 1))

	p, err := build(float64(format.SampleRate))
	if err != nil {
		return nil, err
	}
	if p.Sink == nil || p.Source == nil {
		return nil, fmt.Errorf("wavio requires a complete pipeline")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, format.SampleRate, outBitDepth, 1, 1)

	meterIn, err := level.New(blockSize)
	if err != nil {
		return nil, err
	}
	meterOut, err := level.New(blockSize)
	if err != nil {
		return nil, err
	}

	intBuf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: format.SampleRate},
		Data:   make([]int, blockSize*channels),
	}
	block := make([]float32, blockSize)
	outInts := make([]int, blockSize)

	frames := 0
	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if n == 0 {
			break
		}

		got := n / channels
		for i := 0; i < got; i++ {
			// Channel 0 only; the path is mono.
			block[i] = float32(intBuf.Data[i*channels]) / scale
		}

		meterIn.Observe(block[:got])
		p.Sink.Process(block[:got])
		p.Source.Process(block[:got])
		meterOut.Observe(block[:got])

		for i := 0; i < got; i++ {
			outInts[i] = clipToInt16(block[i])
		}
		writeBuf := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: format.SampleRate},
			SourceBitDepth: outBitDepth,
			Data:           outInts[:got],
		}
		if err := enc.Write(writeBuf); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}

		frames += got
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize output: %w", err)
	}

	return &Summary{
		Frames:     frames,
		SampleRate: format.SampleRate,
		PeakIn:     meterIn.Peak(),
		PeakOut:    meterOut.Peak(),
		Dropped:    p.Sink.Dropped(),
		Underruns:  p.Source.Underruns(),
	}, nil
}

// clipToInt16 converts a float sample to 16-bit PCM, rounding to nearest
// and saturating at the type bounds.
func clipToInt16(s float32) int {
	v := int(math.Round(float64(s) * 32767))
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}
