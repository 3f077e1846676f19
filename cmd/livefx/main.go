// Command livefx streams audio from a capture device to a playback device
// while applying a per-sample effect.
//
// Usage:
//
//	livefx -list
//	livefx -filter delay -delay 12000 -decay 0.6
//	livefx -in 2 -out 5 -filter flange -lfo-rate 0.5 -lfo-amp 80
//	livefx -filter distort -gain 6 -clip 0.4 -duration 30s
//	livefx -config live.yaml
//	livefx -filter delay -wav-in dry.wav -wav-out wet.wav
//	livefx -filter flange -response
//
// Without -wav-in the program opens the configured (or default) devices and
// streams until interrupted or -duration elapses. Flags override values
// from -config. Queue overflow and playback underruns are reported as
// statistics, never as errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-live/dsp/queue"
	"github.com/cwbudde/algo-live/internal/config"
	"github.com/cwbudde/algo-live/internal/session"
	"github.com/cwbudde/algo-live/internal/wavio"
	"github.com/cwbudde/algo-live/measure/response"
	"github.com/cwbudde/algo-live/stream"
)

const (
	responseFFTSize    = 65536
	fallbackSampleRate = 48000.0
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("livefx: ")

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		list       = flag.Bool("list", false, "list audio devices and exit")
		configPath = flag.String("config", "", "YAML config file")
		filterName = flag.String("filter", "", "filter: pass, delay, flange, distort")
		inDev      = flag.Int("in", -2, "input device index (-1 = default)")
		outDev     = flag.Int("out", -2, "output device index (-1 = default)")
		delayLen   = flag.Int("delay", 0, "delay/flange ring length in frames")
		decay      = flag.Float64("decay", -1, "echo decay gain in [0, 1)")
		lfoRate    = flag.Float64("lfo-rate", 0, "flange LFO frequency in Hz")
		lfoAmp     = flag.Float64("lfo-amp", -1, "flange LFO amplitude in frames")
		baseDelay  = flag.Int("base", -1, "flange minimum lag in frames")
		gain       = flag.Float64("gain", 0, "distortion pre-clip gain")
		clip       = flag.Float64("clip", 0, "distortion saturation bound in (0, 1]")
		queueCap   = flag.Int("queue", 0, "hand-off queue capacity in frames")
		rate       = flag.Float64("rate", 0, "sample rate in Hz (0 = device default)")
		block      = flag.Int("block", 0, "callback block size in frames")
		wavIn      = flag.String("wav-in", "", "process this WAV file instead of live devices")
		wavOut     = flag.String("wav-out", "", "output WAV path for -wav-in")
		resp       = flag.Bool("response", false, "print the filter magnitude response and exit")
		duration   = flag.Duration("duration", 0, "stop after this long (0 = until interrupt)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags override the file; sentinel defaults mean "not set".
	if *filterName != "" {
		cfg.Filter = *filterName
	}
	if *inDev != -2 {
		cfg.InputDevice = *inDev
	}
	if *outDev != -2 {
		cfg.OutputDevice = *outDev
	}
	if *delayLen != 0 {
		cfg.DelayLength = *delayLen
	}
	if *decay >= 0 {
		cfg.DecayGain = float32(*decay)
	}
	if *lfoRate != 0 {
		cfg.LFORateHz = *lfoRate
	}
	if *lfoAmp >= 0 {
		cfg.LFOAmplitude = *lfoAmp
	}
	if *baseDelay >= 0 {
		cfg.BaseDelay = *baseDelay
	}
	if *gain != 0 {
		cfg.DistortGain = float32(*gain)
	}
	if *clip != 0 {
		cfg.ClipBound = float32(*clip)
	}
	if *queueCap != 0 {
		cfg.QueueCapacity = *queueCap
	}
	if *rate != 0 {
		cfg.SampleRate = *rate
	}
	if *block != 0 {
		cfg.BlockSize = *block
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	switch {
	case *list:
		return listDevices()
	case *resp:
		return printResponse(cfg)
	case *wavIn != "":
		if *wavOut == "" {
			return fmt.Errorf("-wav-in requires -wav-out")
		}
		return processFile(cfg, *wavIn, *wavOut)
	default:
		return runLive(cfg, *duration)
	}
}

func listDevices() error {
	if err := session.Initialize(); err != nil {
		return err
	}
	defer session.Terminate()

	return session.ListDevices(os.Stdout)
}

func printResponse(cfg config.Config) error {
	rate := cfg.SampleRate
	if rate == 0 {
		rate = fallbackSampleRate
	}

	filter, err := cfg.BuildFilter(rate)
	if err != nil {
		return err
	}

	res, err := response.Magnitude(filter, responseFFTSize, rate)
	if err != nil {
		return err
	}

	peak := res.PeakBin()
	fmt.Printf("filter %s, %d bins, %.2f Hz/bin\n", cfg.Filter, len(res.Magnitude), res.BinWidthHz)
	fmt.Printf("strongest bin %d (%.1f Hz): %.3f\n", peak, res.FreqHz(peak), res.Magnitude[peak])

	// Coarse overview, 16 bands across the spectrum.
	bandSize := len(res.Magnitude) / 16
	for b := 0; b < 16; b++ {
		maxMag := 0.0
		for k := b * bandSize; k < (b+1)*bandSize; k++ {
			if res.Magnitude[k] > maxMag {
				maxMag = res.Magnitude[k]
			}
		}
		fmt.Printf("%8.0f Hz  %.3f\n", res.FreqHz(b*bandSize), maxMag)
	}

	return nil
}

func buildPipeline(cfg config.Config, sampleRate float64) (*stream.CaptureSink, *stream.PlaybackSource, error) {
	q, err := queue.New(cfg.QueueCapacity)
	if err != nil {
		return nil, nil, err
	}

	filter, err := cfg.BuildFilter(sampleRate)
	if err != nil {
		return nil, nil, err
	}

	sink, err := stream.NewCaptureSink(q)
	if err != nil {
		return nil, nil, err
	}

	source, err := stream.NewPlaybackSource(q, filter)
	if err != nil {
		return nil, nil, err
	}

	return sink, source, nil
}

func processFile(cfg config.Config, inPath, outPath string) error {
	if cfg.QueueCapacity < cfg.BlockSize {
		return fmt.Errorf("queue_capacity %d must cover block_size %d for file processing",
			cfg.QueueCapacity, cfg.BlockSize)
	}

	build := func(rate float64) (wavio.Pipeline, error) {
		sink, source, err := buildPipeline(cfg, rate)
		if err != nil {
			return wavio.Pipeline{}, err
		}
		return wavio.Pipeline{Sink: sink, Source: source}, nil
	}

	sum, err := wavio.ProcessFile(inPath, outPath, build, cfg.BlockSize)
	if err != nil {
		return err
	}

	log.Printf("%s -> %s: %d frames at %d Hz, peak %.3f -> %.3f",
		inPath, outPath, sum.Frames, sum.SampleRate, sum.PeakIn, sum.PeakOut)
	if sum.Dropped > 0 || sum.Underruns > 0 {
		log.Printf("dropped %d samples, %d underruns", sum.Dropped, sum.Underruns)
	}
	return nil
}

func runLive(cfg config.Config, duration time.Duration) error {
	if err := session.Initialize(); err != nil {
		return err
	}
	defer session.Terminate()

	s, err := session.New(cfg, func(sampleRate float64) (*stream.CaptureSink, *stream.PlaybackSource, error) {
		return buildPipeline(cfg, sampleRate)
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	return s.Run(ctx)
}
