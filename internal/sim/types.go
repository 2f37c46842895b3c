package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
)

// Input is everything the host hands the kernel for one tick.
type Input struct {
	Dt float64
	// Viewport is nil when the host has no window extents this tick.
	Viewport *Viewport
	// FramePosition is the viewport's position, nil when untracked.
	FramePosition *r2.Vec
}

// StepInfo summarizes one completed tick.
type StepInfo struct {
	Tick       uint64
	Time       float64
	Dt         float64
	Frozen     bool
	Spawned    int
	Purged     bool
	Collisions int
	Contained  bool
	Frame      FrameMotion
	// Viewport is the extent supplied this tick, nil when none was.
	Viewport *Viewport
}

// Policy holds behavior switches that are deliberately configurable.
type Policy struct {
	// ContainWhileFrozen keeps boundary containment running while frozen.
	ContainWhileFrozen bool
}

func DefaultPolicy() Policy {
	return Policy{ContainWhileFrozen: true}
}

type Metric interface {
	Name() string
	Observe(info StepInfo, particles []particle.Particle, rules Rules)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(info StepInfo, particles []particle.Particle, rules Rules)
}
