package config

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballpit/internal/particle"
	"github.com/san-kum/ballpit/internal/sim"
)

const (
	DefaultDt        = 1.0 / 60
	DefaultDuration  = 10.0
	DefaultWidth     = 800.0
	DefaultHeight    = 600.0
	DefaultCount     = 200
	DefaultLayout    = "random"
	DefaultScenario  = "static"
	DefaultSeed      = 1
	DefaultGravityY  = sim.DefaultGravityY
	DefaultRadius    = sim.DefaultRadius
	DefaultMass      = sim.DefaultMass
	DefaultDampening = sim.DefaultDampening
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	World     WorldConfig     `yaml:"world"`
	Particles ParticlesConfig `yaml:"particles"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Policy    PolicyConfig    `yaml:"policy"`
	Run       RunConfig       `yaml:"run"`
}

// WorldConfig is the viewport extent handed to the kernel each tick.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ParticlesConfig struct {
	Count     uint64  `yaml:"count"` // spawned on the first tick
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	Dampening float64 `yaml:"dampening"`
}

type PhysicsConfig struct {
	Gravity VecConfig `yaml:"gravity"`
}

type VecConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VecConfig) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

type SpawnConfig struct {
	Layout    string  `yaml:"layout"`
	GridWidth float64 `yaml:"grid_width"`
	Seed      int64   `yaml:"seed"`
}

type PolicyConfig struct {
	ContainWhileFrozen bool `yaml:"contain_while_frozen"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Scenario string  `yaml:"scenario"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{Width: DefaultWidth, Height: DefaultHeight},
		Particles: ParticlesConfig{
			Count:     DefaultCount,
			Radius:    DefaultRadius,
			Mass:      DefaultMass,
			Dampening: DefaultDampening,
		},
		Physics: PhysicsConfig{Gravity: VecConfig{Y: DefaultGravityY}},
		Spawn:   SpawnConfig{Layout: DefaultLayout, Seed: DefaultSeed},
		Policy:  PolicyConfig{ContainWhileFrozen: true},
		Run: RunConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
			Scenario: DefaultScenario,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
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

// Validate checks the host-side settings. Particle parameters are not
// validated; the kernel accepts them as given.
func (c *Config) Validate() error {
	if c.Run.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Run.Dt)
	}
	if c.Run.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Run.Duration)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world extent must be positive, got %gx%g", ErrInvalidConfig, c.World.Width, c.World.Height)
	}
	if _, err := c.Layout(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Rules() sim.Rules {
	return sim.Rules{
		Particle: sim.ParticleRules{
			Radius:    c.Particles.Radius,
			Mass:      c.Particles.Mass,
			Dampening: c.Particles.Dampening,
		},
		Physics: sim.PhysicsRules{Gravity: c.Physics.Gravity.Vec()},
	}
}

func (c *Config) Layout() (particle.Layout, error) {
	return particle.NewLayout(c.Spawn.Layout, particle.LayoutOptions{
		Seed:      c.Spawn.Seed,
		GridWidth: c.Spawn.GridWidth,
	})
}

func (c *Config) SimPolicy() sim.Policy {
	return sim.Policy{ContainWhileFrozen: c.Policy.ContainWhileFrozen}
}

func (c *Config) Viewport() sim.Viewport {
	return sim.Viewport{Width: c.World.Width, Height: c.World.Height}
}

// NewSimulator builds a kernel from the config. The initial particle count is
// queued, so it spawns on the first tick.
func (c *Config) NewSimulator(opts ...sim.Option) (*sim.Simulator, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	base := []sim.Option{sim.WithLayout(layout), sim.WithPolicy(c.SimPolicy())}
	s := sim.New(c.Rules(), append(base, opts...)...)
	if c.Particles.Count > 0 {
		s.Submit(sim.AddParticles{Count: c.Particles.Count})
	}
	return s, nil
}
