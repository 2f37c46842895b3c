package sim

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultRadius    = 10.0
	DefaultMass      = 1.0
	DefaultDampening = 0.8
	DefaultGravityY  = -90.8
)

// ParticleRules are shared by every particle.
type ParticleRules struct {
	Radius    float64
	Dampening float64
	Mass      float64
}

type PhysicsRules struct {
	Gravity r2.Vec
}

// Rules is the parameter store. It is owned by a Simulator and changed only
// by commands.
type Rules struct {
	Particle ParticleRules
	Physics  PhysicsRules
}

func DefaultRules() Rules {
	return Rules{
		Particle: ParticleRules{
			Radius:    DefaultRadius,
			Dampening: DefaultDampening,
			Mass:      DefaultMass,
		},
		Physics: PhysicsRules{
			Gravity: r2.Vec{Y: DefaultGravityY},
		},
	}
}

// LogValue implements slog.LogValuer.
func (r Rules) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("radius", r.Particle.Radius),
		slog.Float64("mass", r.Particle.Mass),
		slog.Float64("dampening", r.Particle.Dampening),
		slog.Float64("gravity_x", r.Physics.Gravity.X),
		slog.Float64("gravity_y", r.Physics.Gravity.Y),
	)
}
