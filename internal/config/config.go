package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
)

// Defaults mirror the explorer's slider positions.
const (
	DefaultMass      = 1.0
	DefaultStiffness = 4.0
	DefaultDamping   = 4.0
	DefaultX0        = 1.0
	DefaultV0        = 0.0
	DefaultDuration  = 10.0
	DefaultSamples   = 600
	DefaultDataDir   = ".oscillab"
)

type Config struct {
	Mass      float64 `yaml:"mass"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	X0        float64 `yaml:"x0"`
	V0        float64 `yaml:"v0"`
	Duration  float64 `yaml:"duration"`
	Samples   int     `yaml:"samples"`
	DataDir   string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
		X0:        DefaultX0,
		V0:        DefaultV0,
		Duration:  DefaultDuration,
		Samples:   DefaultSamples,
		DataDir:   DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Parameters builds a validated parameter set from the config.
func (c *Config) Parameters() (oscillator.Parameters, error) {
	return oscillator.NewParameters(c.Mass, c.Stiffness, c.Damping, c.X0, c.V0)
}

// SampleTimes returns the config's time grid.
func (c *Config) SampleTimes() []float64 {
	return oscillator.SampleTimes(c.Duration, c.Samples)
}

// Bound describes a slider range with its adjustment step.
type Bound struct {
	Min, Max, Step float64
}

func (b Bound) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Bounds are the explorer's slider ranges.
var Bounds = map[string]Bound{
	"mass":      {Min: 0.1, Max: 10, Step: 0.1},
	"stiffness": {Min: 0.1, Max: 20, Step: 0.1},
	"damping":   {Min: 0, Max: 20, Step: 0.1},
	"x0":        {Min: -10, Max: 10, Step: 0.1},
	"v0":        {Min: -10, Max: 10, Step: 0.1},
	"duration":  {Min: 2, Max: 30, Step: 1},
}

// ClampField clamps v to the named slider range; unknown names pass through.
func ClampField(name string, v float64) float64 {
	b, ok := Bounds[name]
	if !ok {
		return v
	}
	return b.Clamp(v)
}

func (c *Config) Validate() error {
	if _, err := c.Parameters(); err != nil {
		return err
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Samples < 2 {
		return fmt.Errorf("samples must be at least 2, got %d", c.Samples)
	}
	return nil
}
