// Package scenario scripts a run: a timeline of kernel commands and freeze
// toggles, plus a path that moves the viewport frame over time.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballpit/internal/sim"
)

var (
	ErrUnknownOp       = errors.New("scenario: unknown command op")
	ErrUnknownFrame    = errors.New("scenario: unknown frame path")
	ErrUnknownScenario = errors.New("scenario: unknown scenario")
)

type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Frame       FramePath `yaml:"frame"`
	Events      []Event   `yaml:"events"`
}

// Event fires once, on the first tick whose time reaches At.
type Event struct {
	At       float64       `yaml:"at"`
	Freeze   *bool         `yaml:"freeze,omitempty"`
	Commands []CommandSpec `yaml:"commands,omitempty"`
}

type CommandSpec struct {
	Op    string  `yaml:"op"`
	Count uint64  `yaml:"count,omitempty"`
	Value float64 `yaml:"value,omitempty"`
	X     float64 `yaml:"x,omitempty"`
	Y     float64 `yaml:"y,omitempty"`
}

func (c CommandSpec) ToCommand() (sim.Command, error) {
	switch c.Op {
	case "delete_all":
		return sim.DeleteAll{}, nil
	case "add":
		return sim.AddParticles{Count: c.Count}, nil
	case "radius":
		return sim.SetRadius{Radius: c.Value}, nil
	case "gravity":
		return sim.SetGravity{Gravity: r2.Vec{X: c.X, Y: c.Y}}, nil
	case "mass":
		return sim.SetMass{Mass: c.Value}, nil
	case "dampening":
		return sim.SetDampening{Dampening: c.Value}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, c.Op)
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// FramePath describes the viewport frame position as a function of time.
//
//	static: no frame motion, the kernel sees no frame position
//	sine:   Amplitude * sin(2*pi*Frequency*t) per axis
//	linear: Velocity * t
type FramePath struct {
	Kind      string  `yaml:"kind"`
	Amplitude Vec     `yaml:"amplitude,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
	Velocity  Vec     `yaml:"velocity,omitempty"`
}

func (f FramePath) Position(t float64) *r2.Vec {
	switch f.Kind {
	case "sine":
		s := math.Sin(2 * math.Pi * f.Frequency * t)
		return &r2.Vec{X: f.Amplitude.X * s, Y: f.Amplitude.Y * s}
	case "linear":
		return &r2.Vec{X: f.Velocity.X * t, Y: f.Velocity.Y * t}
	}
	return nil
}

func (s *Scenario) Validate() error {
	switch s.Frame.Kind {
	case "", "static", "sine", "linear":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrame, s.Frame.Kind)
	}
	for i, ev := range s.Events {
		for _, c := range ev.Commands {
			if _, err := c.ToCommand(); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Events, func(i, j int) bool { return sc.Events[i].At < sc.Events[j].At })
	return &sc, nil
}

// Resolve returns the built-in scenario with the given name, or loads it
// from a YAML file when no built-in matches.
func Resolve(nameOrPath string) (*Scenario, error) {
	if sc := Get(nameOrPath); sc != nil {
		return sc, nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, nameOrPath)
	}
	return LoadScenario(nameOrPath)
}
