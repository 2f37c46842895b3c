package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/particle"
	"github.com/san-kum/ballpit/internal/scenario"
	"github.com/san-kum/ballpit/internal/sim"
)

var ErrNoConfig = errors.New("experiment: no config")

type Config struct {
	Name     string
	Sim      *config.Config
	Scenario *scenario.Scenario
	Logger   *slog.Logger
	// SampleEvery records one telemetry row per this many ticks. Zero means
	// every tick.
	SampleEvery int
}

// Sample is one telemetry row.
type Sample struct {
	Tick           uint64  `csv:"tick" json:"tick"`
	Time           float64 `csv:"time" json:"time"`
	Particles      int     `csv:"particles" json:"particles"`
	Frozen         bool    `csv:"frozen" json:"frozen"`
	KineticEnergy  float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	Momentum       float64 `csv:"momentum" json:"momentum"`
	MaxPenetration float64 `csv:"max_penetration" json:"max_penetration"`
	Containment    float64 `csv:"containment" json:"containment"`
	MeanSpeed      float64 `csv:"mean_speed" json:"mean_speed"`
	SpeedStdDev    float64 `csv:"speed_std" json:"speed_std"`
	Collisions     int     `csv:"collisions" json:"collisions"`
	FrameVX        float64 `csv:"frame_vx" json:"frame_vx"`
	FrameVY        float64 `csv:"frame_vy" json:"frame_vy"`
}

type Result struct {
	Name     string
	Scenario string
	Samples  []Sample
	Metrics  map[string]float64
	Final    []particle.Particle
	Ticks    uint64
	Elapsed  time.Duration
}

// Series extracts one telemetry column by its csv name.
func (r *Result) Series(column string) ([]float64, error) {
	return SeriesOf(r.Samples, column)
}

func SeriesOf(samples []Sample, column string) ([]float64, error) {
	get, ok := columns[column]
	if !ok {
		return nil, fmt.Errorf("unknown telemetry column: %s", column)
	}
	out := make([]float64, len(samples))
	for i := range samples {
		out[i] = get(&samples[i])
	}
	return out, nil
}

var columns = map[string]func(*Sample) float64{
	"time":            func(s *Sample) float64 { return s.Time },
	"particles":       func(s *Sample) float64 { return float64(s.Particles) },
	"kinetic_energy":  func(s *Sample) float64 { return s.KineticEnergy },
	"momentum":        func(s *Sample) float64 { return s.Momentum },
	"max_penetration": func(s *Sample) float64 { return s.MaxPenetration },
	"containment":     func(s *Sample) float64 { return s.Containment },
	"mean_speed":      func(s *Sample) float64 { return s.MeanSpeed },
	"speed_std":       func(s *Sample) float64 { return s.SpeedStdDev },
	"collisions":      func(s *Sample) float64 { return float64(s.Collisions) },
	"frame_vx":        func(s *Sample) float64 { return s.FrameVX },
	"frame_vy":        func(s *Sample) float64 { return s.FrameVY },
}

// Experiment is a headless fixed-timestep run of a config and scenario.
type Experiment struct {
	cfg    Config
	sim    *sim.Simulator
	player *scenario.Player
	logger *slog.Logger

	energy      *metrics.KineticEnergy
	momentum    *metrics.Momentum
	penetration *metrics.MaxPenetration
	containment *metrics.Containment
	speed       *metrics.Speed
	collisions  *metrics.Collisions
}

func New(cfg Config) (*Experiment, error) {
	if cfg.Sim == nil {
		return nil, ErrNoConfig
	}
	if err := cfg.Sim.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scenario == nil {
		name := cfg.Sim.Run.Scenario
		if name == "" {
			name = config.DefaultScenario
		}
		sc, err := scenario.Resolve(name)
		if err != nil {
			return nil, err
		}
		cfg.Scenario = sc
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 1
	}

	s, err := cfg.Sim.NewSimulator(sim.WithLogger(cfg.Logger))
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:    cfg,
		sim:    s,
		player: scenario.NewPlayer(cfg.Scenario, cfg.Logger),
		logger: cfg.Logger,
	}
	for _, m := range metrics.Standard() {
		switch m := m.(type) {
		case *metrics.KineticEnergy:
			e.energy = m
		case *metrics.Momentum:
			e.momentum = m
		case *metrics.MaxPenetration:
			e.penetration = m
		case *metrics.Containment:
			e.containment = m
		case *metrics.Speed:
			e.speed = m
		case *metrics.Collisions:
			e.collisions = m
		}
		s.AddMetric(m)
	}
	return e, nil
}

// Simulator returns the underlying kernel for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.sim }

// Run steps the kernel for the configured duration. On cancellation the
// partial result is returned with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	dt := e.cfg.Sim.Run.Dt
	steps := int(math.Round(e.cfg.Sim.Run.Duration / dt))
	vp := e.cfg.Sim.Viewport()

	result := &Result{
		Name:     e.cfg.Name,
		Scenario: e.cfg.Scenario.Name,
		Samples:  make([]Sample, 0, steps/e.cfg.SampleEvery+1),
	}

	e.logger.Info("run_started",
		"name", e.cfg.Name,
		"scenario", e.cfg.Scenario.Name,
		"steps", steps,
		"dt", dt,
		"rules", e.sim.Rules(),
	)
	start := time.Now()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			e.finish(result, start)
			return result, ctx.Err()
		default:
		}

		t := e.sim.Time()
		if !e.player.Done() {
			if _, err := e.player.Apply(e.sim, t); err != nil {
				e.finish(result, start)
				return result, err
			}
			if e.player.Done() {
				e.logger.Debug("scenario_finished", "scenario", e.cfg.Scenario.Name, "tick", e.sim.Tick())
			}
		}

		info, err := e.sim.Step(sim.Input{
			Dt:            dt,
			Viewport:      &vp,
			FramePosition: e.cfg.Scenario.Frame.Position(t),
		})
		if err != nil {
			e.finish(result, start)
			return result, err
		}

		if i%e.cfg.SampleEvery == 0 || i == steps-1 {
			result.Samples = append(result.Samples, e.sample(info))
		}
	}

	e.finish(result, start)
	e.logger.Info("run_finished",
		"name", e.cfg.Name,
		"ticks", result.Ticks,
		"particles", len(result.Final),
		"elapsed", result.Elapsed,
	)
	return result, nil
}

func (e *Experiment) sample(info sim.StepInfo) Sample {
	return Sample{
		Tick:           info.Tick,
		Time:           info.Time,
		Particles:      e.sim.Len(),
		Frozen:         info.Frozen,
		KineticEnergy:  e.energy.Value(),
		Momentum:       e.momentum.Value(),
		MaxPenetration: e.penetration.Current(),
		Containment:    e.containment.Value(),
		MeanSpeed:      e.speed.Value(),
		SpeedStdDev:    e.speed.StdDev(),
		Collisions:     e.collisions.Last(),
		FrameVX:        info.Frame.Velocity.X,
		FrameVY:        info.Frame.Velocity.Y,
	}
}

func (e *Experiment) finish(r *Result, start time.Time) {
	r.Elapsed = time.Since(start)
	r.Ticks = e.sim.Tick()
	r.Metrics = e.sim.Metrics()
	r.Final = e.sim.Snapshot(nil)
}
