// Package particle holds the particle value type, the registry that owns the
// live population, and the spawn layouts that place new particles.
//
// Radius and mass are not stored per particle. The only per-particle
// physical field is [Particle.OriginalRadius], the radius at spawn time,
// kept so the visual scale can follow later radius changes.
package particle

import "gonum.org/v1/gonum/spatial/r2"

type Particle struct {
	Position       r2.Vec
	Velocity       r2.Vec
	OriginalRadius float64
	// Scale is the visual scale factor: current radius / OriginalRadius.
	Scale float64
}

// New returns a resting particle spawned at radius.
func New(pos r2.Vec, radius float64) Particle {
	return Particle{
		Position:       pos,
		OriginalRadius: radius,
		Scale:          1,
	}
}

func (p Particle) Speed() float64 {
	return r2.Norm(p.Velocity)
}
