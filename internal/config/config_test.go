package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-live/dsp/effects"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "pass", cfg.Filter)
	assert.Equal(t, DefaultQueueCapacity, cfg.QueueCapacity)
	assert.Equal(t, -1, cfg.InputDevice)
	assert.Equal(t, -1, cfg.OutputDevice)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
filter: delay
delay_length: 4800
decay_gain: 0.4
queue_capacity: 2048
input_device: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "delay", cfg.Filter)
	assert.Equal(t, 4800, cfg.DelayLength)
	assert.InDelta(t, 0.4, float64(cfg.DecayGain), 1e-6)
	assert.Equal(t, 2048, cfg.QueueCapacity)
	assert.Equal(t, 3, cfg.InputDevice)

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultBlockSize, cfg.BlockSize)
	assert.Equal(t, -1, cfg.OutputDevice)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "filter: [oops\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown filter", func(c *Config) { c.Filter = "reverb" }},
		{"zero delay length", func(c *Config) { c.DelayLength = 0 }},
		{"decay at one", func(c *Config) { c.DecayGain = 1 }},
		{"negative decay", func(c *Config) { c.DecayGain = -0.1 }},
		{"zero lfo rate", func(c *Config) { c.LFORateHz = 0 }},
		{"negative lfo amplitude", func(c *Config) { c.LFOAmplitude = -1 }},
		{"negative base delay", func(c *Config) { c.BaseDelay = -1 }},
		{"zero distort gain", func(c *Config) { c.DistortGain = 0 }},
		{"bound above one", func(c *Config) { c.ClipBound = 1.1 }},
		{"zero queue", func(c *Config) { c.QueueCapacity = 0 }},
		{"negative rate", func(c *Config) { c.SampleRate = -1 }},
		{"zero block", func(c *Config) { c.BlockSize = 0 }},
		{"bad input index", func(c *Config) { c.InputDevice = -2 }},
		{"bad output index", func(c *Config) { c.OutputDevice = -5 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBuildFilterVariants(t *testing.T) {
	cfg := Default()

	cfg.Filter = "pass"
	f, err := cfg.BuildFilter(48000)
	require.NoError(t, err)
	assert.IsType(t, &effects.PassThrough{}, f)

	cfg.Filter = "delay"
	f, err = cfg.BuildFilter(48000)
	require.NoError(t, err)
	assert.IsType(t, &effects.Delay{}, f)

	cfg.Filter = "flange"
	f, err = cfg.BuildFilter(48000)
	require.NoError(t, err)
	assert.IsType(t, &effects.Flange{}, f)

	cfg.Filter = "distort"
	f, err = cfg.BuildFilter(48000)
	require.NoError(t, err)
	assert.IsType(t, &effects.Distort{}, f)
}

func TestBuildFilterPropagatesParameterErrors(t *testing.T) {
	cfg := Default()
	cfg.Filter = "delay"
	cfg.DelayLength = -1

	_, err := cfg.BuildFilter(48000)
	require.Error(t, err)
}
