// Package config provides configuration loading and access for the swarm.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/nebula/engine"
	"github.com/pthm-cable/nebula/shapes"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tunables: physics constants, shape magnitudes, viewer
// settings and telemetry cadence.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Engine    engine.Params   `yaml:"engine"`
	Shapes    shapes.Params   `yaml:"shapes"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// HeadlessConfig holds settings for running without graphics.
type HeadlessConfig struct {
	// DT is the fixed timestep in seconds for headless stepping.
	DT float64 `yaml:"dt"`
	// MorphEvery cycles through the built-in shapes at this interval in
	// simulation seconds (0 = no cycling).
	MorphEvery float64 `yaml:"morph_every"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	// StatsWindow is the stats flush interval in simulation seconds.
	StatsWindow float64 `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32             float32 // Headless.DT as float32
	StatsWindowTicks int     // ticks per telemetry window at Headless.DT
	MorphEveryTicks  int     // ticks per shape cycle (0 = disabled)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Headless.DT <= 0 {
		c.Headless.DT = 1.0 / 60.0
	}
	c.Derived.DT32 = float32(c.Headless.DT)

	ticks := int(c.Telemetry.StatsWindow / c.Headless.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsWindowTicks = ticks

	if c.Headless.MorphEvery > 0 {
		c.Derived.MorphEveryTicks = int(c.Headless.MorphEvery / c.Headless.DT)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
