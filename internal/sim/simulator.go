package sim

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
)

type Simulator struct {
	rules    Rules
	state    State
	registry *particle.Registry
	layout   particle.Layout
	policy   Policy
	frame    FrameMotion
	logger   *slog.Logger

	viewport    Viewport
	hasViewport bool

	tick uint64
	time float64

	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithLayout(l particle.Layout) Option {
	return func(s *Simulator) {
		if l != nil {
			s.layout = l
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(s *Simulator) { s.policy = p }
}

func New(rules Rules, opts ...Option) *Simulator {
	s := &Simulator{
		rules:     rules,
		registry:  particle.NewRegistry(),
		layout:    particle.NewRandom(1),
		policy:    DefaultPolicy(),
		logger:    slog.Default(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Submit queues commands for the next tick.
func (s *Simulator) Submit(cmds ...Command) { s.state.Commands.Push(cmds...) }

func (s *Simulator) Pending() int          { return s.state.Commands.Len() }
func (s *Simulator) SetFreeze(freeze bool) { s.state.Freeze = freeze }
func (s *Simulator) Frozen() bool          { return s.state.Freeze }
func (s *Simulator) Rules() Rules          { return s.rules }
func (s *Simulator) Policy() Policy        { return s.policy }
func (s *Simulator) Frame() FrameMotion    { return s.frame }
func (s *Simulator) Tick() uint64          { return s.tick }
func (s *Simulator) Time() float64         { return s.time }
func (s *Simulator) Len() int              { return s.registry.Len() }

// Particles returns the live particles. Only valid between ticks.
func (s *Simulator) Particles() []particle.Particle { return s.registry.All() }

// Snapshot copies the live particles into dst, reusing its storage.
func (s *Simulator) Snapshot(dst []particle.Particle) []particle.Particle {
	return append(dst[:0], s.registry.All()...)
}

func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Step runs one tick. Only an invalid dt is reported as an error; in that
// case nothing is applied and queued commands stay queued.
func (s *Simulator) Step(in Input) (StepInfo, error) {
	if math.IsNaN(in.Dt) || math.IsInf(in.Dt, 0) || in.Dt < 0 {
		return StepInfo{}, &StepError{Tick: s.tick, Time: s.time, Err: fmt.Errorf("%w: %v", ErrInvalidDt, in.Dt)}
	}

	if in.Viewport != nil {
		s.viewport = *in.Viewport
		s.hasViewport = true
	}

	info := StepInfo{Tick: s.tick, Dt: in.Dt, Frozen: s.state.Freeze}
	if in.Viewport != nil {
		vp := *in.Viewport
		info.Viewport = &vp
	}
	info.Spawned, info.Purged = s.applyCommands()

	s.frame.Update(in.FramePosition, in.Dt)
	info.Frame = s.frame

	if !s.state.Freeze {
		s.applyGravity(in.Dt)
		info.Collisions = s.resolveCollisions()
		s.integrate(in.Dt)
	}

	if !s.state.Freeze || s.policy.ContainWhileFrozen {
		if in.Viewport == nil {
			s.logger.Warn("boundary_skipped", "tick", s.tick, "error", ErrNoViewport)
		} else {
			s.contain(*in.Viewport)
			info.Contained = true
		}
	}

	s.tick++
	s.time += in.Dt
	info.Time = s.time

	particles := s.registry.All()
	for _, m := range s.metrics {
		m.Observe(info, particles, s.rules)
	}
	for _, obs := range s.observers {
		obs.OnStep(info, particles, s.rules)
	}

	return info, nil
}

// applyCommands drains the queue in order, then purges and spawns once.
func (s *Simulator) applyCommands() (spawned int, purged bool) {
	var count uint64
	for _, cmd := range s.state.Commands.cmds {
		switch c := cmd.(type) {
		case DeleteAll:
			purged = true
		case AddParticles:
			if count > math.MaxUint64-c.Count {
				count = math.MaxUint64
			} else {
				count += c.Count
			}
		case SetRadius:
			s.rules.Particle.Radius = c.Radius
			s.registry.Rescale(c.Radius)
		case SetGravity:
			s.rules.Physics.Gravity = c.Gravity
		case SetMass:
			s.rules.Particle.Mass = c.Mass
		case SetDampening:
			s.rules.Particle.Dampening = c.Dampening
		default:
			s.logger.Warn("command_ignored", "type", fmt.Sprintf("%T", cmd), "error", ErrUnknownCommand)
		}
	}
	s.state.Commands.Clear()

	if purged {
		s.logger.Debug("particles_deleted", "tick", s.tick, "count", s.registry.Len())
		s.registry.Clear()
	}
	if count > 0 {
		spawned = s.spawn(count)
	}
	return spawned, purged
}

func (s *Simulator) spawn(count uint64) int {
	extent := particle.Extent{}
	if s.hasViewport {
		extent = particle.Extent{Width: s.viewport.Width, Height: s.viewport.Height}
	} else {
		s.logger.Warn("spawn_without_viewport", "tick", s.tick, "count", count, "error", ErrNoViewport)
	}
	if count > particle.MaxSpawn {
		s.logger.Warn("spawn_clamped", "tick", s.tick, "requested", count, "max", particle.MaxSpawn)
		count = particle.MaxSpawn
	}
	n := s.registry.Spawn(s.layout, count, s.rules.Particle.Radius, extent)
	s.logger.Debug("particles_spawned", "tick", s.tick, "count", n, "layout", s.layout.Name(), "rules", s.rules)
	return n
}

func (s *Simulator) applyGravity(dt float64) {
	dv := r2.Scale(dt, s.rules.Physics.Gravity)
	ps := s.registry.All()
	for i := range ps {
		ps[i].Velocity = r2.Add(ps[i].Velocity, dv)
	}
}

func (s *Simulator) integrate(dt float64) {
	ps := s.registry.All()
	for i := range ps {
		ps[i].Position = r2.Add(ps[i].Position, r2.Scale(dt, ps[i].Velocity))
	}
}

// resolveCollisions corrects every overlapping pair once, in slice order, and
// returns the number of contacts.
func (s *Simulator) resolveCollisions() int {
	ps := s.registry.All()
	contacts := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if collide(&ps[i], &ps[j], &s.rules.Particle) {
				contacts++
			}
		}
	}
	return contacts
}

func collide(a, b *particle.Particle, rules *ParticleRules) bool {
	offset := r2.Sub(a.Position, b.Position)
	dist := r2.Norm(offset)
	overlap := 2*rules.Radius - dist
	if overlap <= 0 {
		return false
	}

	direction := collisionAxis
	if dist > 0 {
		direction = r2.Scale(1/dist, offset)
	}

	correction := r2.Scale(overlap/2, direction)
	a.Position = r2.Add(a.Position, correction)
	b.Position = r2.Sub(b.Position, correction)

	aNormal := project(a.Velocity, r2.Scale(-1, direction))
	aTangent := r2.Sub(a.Velocity, aNormal)
	bNormal := project(b.Velocity, direction)
	bTangent := r2.Sub(b.Velocity, bNormal)

	m, d := rules.Mass, rules.Dampening
	var aOut, bOut r2.Vec
	if total := 2 * m; total != 0 {
		aOut = r2.Scale(d/total, r2.Add(r2.Scale(m, aNormal), r2.Scale(m, r2.Sub(r2.Scale(2, bNormal), aNormal))))
		bOut = r2.Scale(d/total, r2.Add(r2.Scale(m, bNormal), r2.Scale(m, r2.Sub(r2.Scale(2, aNormal), bNormal))))
	} else {
		aOut = r2.Scale(d, bNormal)
		bOut = r2.Scale(d, aNormal)
	}

	a.Velocity = r2.Add(aOut, aTangent)
	b.Velocity = r2.Add(bOut, bTangent)
	return true
}

// contain shifts particles against the frame's displacement, then reflects
// them off the viewport edges, adding the frame velocity to each bounce.
func (s *Simulator) contain(vp Viewport) {
	halfW, halfH := vp.HalfExtents()
	r := s.rules.Particle.Radius
	d := s.rules.Particle.Dampening
	delta, fv := s.frame.Delta, s.frame.Velocity

	for i := 0; i < s.registry.Len(); i++ {
		p := s.registry.At(i)
		p.Position.X -= delta.X
		p.Position.Y += delta.Y

		switch {
		case p.Position.X+r > halfW:
			p.Position.X = halfW - r
			p.Velocity.X = -math.Abs(p.Velocity.X)*d + fv.X
		case p.Position.X-r < -halfW:
			p.Position.X = -halfW + r
			p.Velocity.X = math.Abs(p.Velocity.X)*d + fv.X
		}

		switch {
		case p.Position.Y+r > halfH:
			p.Position.Y = halfH - r
			p.Velocity.Y = -math.Abs(p.Velocity.Y)*d + fv.Y
		case p.Position.Y-r < -halfH:
			p.Position.Y = -halfH + r
			p.Velocity.Y = math.Abs(p.Velocity.Y)*d + fv.Y
		}
	}
}
