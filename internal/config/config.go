// Package config holds the construction-time configuration for the live
// signal path: which filter to run, its parameters, and the stream shape.
// Values come from defaults, an optional YAML file, and CLI flags, in that
// order; Validate is the single place misconfiguration fails loudly, before
// any stream opens.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-live/dsp/effects"
)

// Default parameter set, sized for a 48 kHz stream.
const (
	DefaultQueueCapacity = 960
	DefaultBlockSize     = 480
	DefaultDelayLength   = 10000
	DefaultDecay         = 0.7
	DefaultLFORateHz     = 0.25
	DefaultLFOAmplitude  = 50
	DefaultBaseDelay     = 1000
	DefaultDistortGain   = 4
	DefaultClipBound     = 0.5
)

// Config is the full configuration surface.
//
// Device indices are -1 for the system default. SampleRate 0 means "use the
// input device's default rate".
type Config struct {
	Filter        string  `yaml:"filter"`
	DelayLength   int     `yaml:"delay_length"`
	DecayGain     float32 `yaml:"decay_gain"`
	LFORateHz     float64 `yaml:"lfo_frequency"`
	LFOAmplitude  float64 `yaml:"lfo_amplitude"`
	BaseDelay     int     `yaml:"base_delay"`
	DistortGain   float32 `yaml:"distortion_gain"`
	ClipBound     float32 `yaml:"saturation_bound"`
	QueueCapacity int     `yaml:"queue_capacity"`
	SampleRate    float64 `yaml:"sample_rate"`
	BlockSize     int     `yaml:"block_size"`
	InputDevice   int     `yaml:"input_device"`
	OutputDevice  int     `yaml:"output_device"`
}

// Default returns the configuration used when nothing is specified:
// a pass-through at the device's own rate.
func Default() Config {
	return Config{
		Filter:        effects.TypePassThrough.String(),
		DelayLength:   DefaultDelayLength,
		DecayGain:     DefaultDecay,
		LFORateHz:     DefaultLFORateHz,
		LFOAmplitude:  DefaultLFOAmplitude,
		BaseDelay:     DefaultBaseDelay,
		DistortGain:   DefaultDistortGain,
		ClipBound:     DefaultClipBound,
		QueueCapacity: DefaultQueueCapacity,
		SampleRate:    0,
		BlockSize:     DefaultBlockSize,
		InputDevice:   -1,
		OutputDevice:  -1,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks every parameter range, whether or not the selected filter
// uses it, so a config file never carries silently broken values.
func (c *Config) Validate() error {
	if _, err := effects.ParseType(c.Filter); err != nil {
		return err
	}

	if c.DelayLength <= 0 {
		return fmt.Errorf("delay_length must be > 0 frames: %d", c.DelayLength)
	}

	if c.DecayGain < 0 || c.DecayGain >= 1 || isBad64(float64(c.DecayGain)) {
		return fmt.Errorf("decay_gain must be in [0, 1): %f", c.DecayGain)
	}

	if c.LFORateHz <= 0 || isBad64(c.LFORateHz) {
		return fmt.Errorf("lfo_frequency must be > 0 Hz: %f", c.LFORateHz)
	}

	if c.LFOAmplitude < 0 || isBad64(c.LFOAmplitude) {
		return fmt.Errorf("lfo_amplitude must be >= 0 frames: %f", c.LFOAmplitude)
	}

	if c.BaseDelay < 0 {
		return fmt.Errorf("base_delay must be >= 0 frames: %d", c.BaseDelay)
	}

	if c.DistortGain <= 0 || isBad64(float64(c.DistortGain)) {
		return fmt.Errorf("distortion_gain must be > 0: %f", c.DistortGain)
	}

	if c.ClipBound <= 0 || c.ClipBound > 1 || isBad64(float64(c.ClipBound)) {
		return fmt.Errorf("saturation_bound must be in (0, 1]: %f", c.ClipBound)
	}

	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be > 0 frames: %d", c.QueueCapacity)
	}

	if c.SampleRate < 0 || isBad64(c.SampleRate) {
		return fmt.Errorf("sample_rate must be >= 0 Hz: %f", c.SampleRate)
	}

	if c.BlockSize <= 0 {
		return fmt.Errorf("block_size must be > 0 frames: %d", c.BlockSize)
	}

	if c.InputDevice < -1 {
		return fmt.Errorf("input_device must be a device index or -1: %d", c.InputDevice)
	}

	if c.OutputDevice < -1 {
		return fmt.Errorf("output_device must be a device index or -1: %d", c.OutputDevice)
	}

	return nil
}

// BuildFilter constructs the configured filter at the given stream rate.
// The rate matters only to the flange's LFO coefficient.
func (c *Config) BuildFilter(sampleRate float64) (effects.Filter, error) {
	typ, err := effects.ParseType(c.Filter)
	if err != nil {
		return nil, err
	}

	switch typ {
	case effects.TypePassThrough:
		return effects.NewPassThrough(), nil
	case effects.TypeDelay:
		return effects.NewDelay(c.DelayLength, c.DecayGain)
	case effects.TypeFlange:
		return effects.NewFlange(sampleRate,
			effects.WithFlangeLength(c.DelayLength),
			effects.WithFlangeBaseDelay(c.BaseDelay),
			effects.WithFlangeDecay(c.DecayGain),
			effects.WithFlangeRateHz(c.LFORateHz),
			effects.WithFlangeAmplitude(c.LFOAmplitude),
		)
	case effects.TypeDistort:
		return effects.NewDistort(c.DistortGain, c.ClipBound)
	default:
		return nil, fmt.Errorf("unhandled filter type: %v", typ)
	}
}

func isBad64(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
