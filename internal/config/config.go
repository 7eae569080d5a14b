package config

import (
	"fmt"
	"os"

	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = 0.01
	DefaultSteps         = 1000
	DefaultCharge        = 1.0
	DefaultMass          = 1.0
	DefaultProfile       = "gyration"
	DefaultIntegrator    = "rk4"
	DefaultProgressEvery = dynamo.DefaultProgressInterval
)

// Vec is a 3-vector written as a YAML sequence.
type Vec [3]float64

func (v Vec) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

type Config struct {
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	Charge        float64 `yaml:"charge"`
	Mass          float64 `yaml:"mass"`
	Profile       string  `yaml:"profile"`
	Position      Vec     `yaml:"position"`
	Velocity      Vec     `yaml:"velocity"`
	Integrator    string  `yaml:"integrator"`
	ProgressEvery int     `yaml:"progress_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		Charge:        DefaultCharge,
		Mass:          DefaultMass,
		Profile:       DefaultProfile,
		Position:      Vec{1, 0, 0},
		Velocity:      Vec{0, 1, 0},
		Integrator:    DefaultIntegrator,
		ProgressEvery: DefaultProgressEvery,
	}
}

// Load reads a YAML run file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Params converts the file form into run parameters and validates them.
// A custom field function cannot be expressed in a file; it is attached by
// the caller after conversion.
func (c *Config) Params() (dynamo.Params, error) {
	profile, err := field.ParseProfile(c.Profile)
	if err != nil {
		return dynamo.Params{}, fmt.Errorf("%w: %v", dynamo.ErrConfiguration, err)
	}
	p := dynamo.Params{
		Charge:  c.Charge,
		Mass:    c.Mass,
		Dt:      c.Dt,
		Steps:   c.Steps,
		Profile: profile,
	}
	if profile == field.Custom {
		return p, nil
	}
	if err := p.Validate(); err != nil {
		return dynamo.Params{}, err
	}
	return p, nil
}

func (c *Config) InitialState() dynamo.State {
	return dynamo.State{Position: c.Position.R3(), Velocity: c.Velocity.R3()}
}
