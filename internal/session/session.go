// Package session owns the portaudio side of the live path: device
// enumeration and selection, the two independently scheduled callback
// streams, and the run loop. Everything device-related fails here, before
// or outside the real-time core; the core itself never sees a device error.
package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-live/internal/config"
	"github.com/cwbudde/algo-live/measure/level"
	"github.com/cwbudde/algo-live/stream"
)

const statusInterval = 2 * time.Second

// Initialize starts the portaudio runtime. Pair with Terminate.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate shuts the portaudio runtime down.
func Terminate() error {
	return portaudio.Terminate()
}

// ListDevices writes an indexed table of every audio device.
// The indices are the ones the input_device/output_device settings accept.
func ListDevices(w io.Writer) error {
	devices, err := portaudio.Devices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "index\tname\thost\tin\tout\tdefault rate")
	for i, d := range devices {
		host := ""
		if d.HostApi != nil {
			host = d.HostApi.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%.0f Hz\n",
			i, d.Name, host, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return tw.Flush()
}

// PipelineBuilder constructs the signal path once the stream rate is known.
// The session resolves devices first, since the flange LFO coefficient
// depends on the negotiated rate.
type PipelineBuilder func(sampleRate float64) (*stream.CaptureSink, *stream.PlaybackSource, error)

// Session holds the two open streams and their shared pipeline.
type Session struct {
	in     *portaudio.Stream
	out    *portaudio.Stream
	sink   *stream.CaptureSink
	source *stream.PlaybackSource
	meter  *level.Meter
	rate   float64
}

// New resolves the configured devices, negotiates the sample rate, builds
// the pipeline via build, and opens one input stream and one output stream.
// The streams are opened but not started.
func New(cfg config.Config, build PipelineBuilder) (*Session, error) {
	inDev, err := deviceAt(cfg.InputDevice, true)
	if err != nil {
		return nil, err
	}

	outDev, err := deviceAt(cfg.OutputDevice, false)
	if err != nil {
		return nil, err
	}

	rate := cfg.SampleRate
	if rate == 0 {
		rate = inDev.DefaultSampleRate
	}

	sink, source, err := build(rate)
	if err != nil {
		return nil, err
	}

	meter, err := level.New(cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	s := &Session{sink: sink, source: source, meter: meter, rate: rate}

	inParams := portaudio.LowLatencyParameters(inDev, nil)
	inParams.Input.Channels = 1
	inParams.SampleRate = rate
	inParams.FramesPerBuffer = cfg.BlockSize

	s.in, err = portaudio.OpenStream(inParams, func(in []float32) {
		s.sink.Process(in)
	})
	if err != nil {
		return nil, fmt.Errorf("open input stream on %q: %w", inDev.Name, err)
	}

	outParams := portaudio.LowLatencyParameters(nil, outDev)
	outParams.Output.Channels = 1
	outParams.SampleRate = rate
	outParams.FramesPerBuffer = cfg.BlockSize

	s.out, err = portaudio.OpenStream(outParams, func(out []float32) {
		s.source.Process(out)
		s.meter.Observe(out)
	})
	if err != nil {
		s.in.Close()
		return nil, fmt.Errorf("open output stream on %q: %w", outDev.Name, err)
	}

	log.Printf("input  %q, output %q, %.0f Hz, block %d", inDev.Name, outDev.Name, rate, cfg.BlockSize)

	return s, nil
}

// SampleRate returns the negotiated stream rate in Hz.
func (s *Session) SampleRate() float64 {
	return s.rate
}

// Run starts both streams and blocks until ctx is cancelled, then stops
// them. In-flight callbacks finish on their own; the pipeline needs no
// teardown beyond the streams.
func (s *Session) Run(ctx context.Context) error {
	if err := s.in.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	if err := s.out.Start(); err != nil {
		if stopErr := s.in.Stop(); stopErr != nil {
			log.Printf("stop input stream: %v", stopErr)
		}
		return fmt.Errorf("start output stream: %w", err)
	}

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			var firstErr error
			if err := s.out.Stop(); err != nil {
				firstErr = fmt.Errorf("stop output stream: %w", err)
			}
			if err := s.in.Stop(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("stop input stream: %w", err)
			}
			s.logStatus("final")
			return firstErr
		case <-ticker.C:
			s.logStatus("status")
		}
	}
}

// Close releases both streams.
func (s *Session) Close() error {
	var firstErr error
	if s.out != nil {
		if err := s.out.Close(); err != nil {
			firstErr = err
		}
	}
	if s.in != nil {
		if err := s.in.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Session) logStatus(tag string) {
	log.Printf("%s: peak %.3f, rms %.3f, dropped %d, underruns %d",
		tag, s.meter.Peak(), s.meter.RMS(), s.sink.Dropped(), s.source.Underruns())
}

// deviceAt returns the device at index, or the default input/output device
// for -1. An index past the end of the device list is an error rather than
// a silent fallback.
func deviceAt(index int, input bool) (*portaudio.DeviceInfo, error) {
	if index < 0 {
		if input {
			d, err := portaudio.DefaultInputDevice()
			if err != nil {
				return nil, fmt.Errorf("default input device: %w", err)
			}
			return d, nil
		}
		d, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("default output device: %w", err)
		}
		return d, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if index >= len(devices) {
		return nil, fmt.Errorf("device index %d out of range (%d devices)", index, len(devices))
	}

	d := devices[index]
	if input && d.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no input channels", index, d.Name)
	}
	if !input && d.MaxOutputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no output channels", index, d.Name)
	}
	return d, nil
}
