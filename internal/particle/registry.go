package particle

import "math"

// MaxSpawn caps how many particles a single Spawn call may add.
const MaxSpawn uint64 = 1 << 16

// Registry owns the live particles in a contiguous slice. Iteration order is
// insertion order and stays stable within a tick.
type Registry struct {
	items []Particle
}

func NewRegistry() *Registry {
	return &Registry{items: make([]Particle, 0, 64)}
}

func (r *Registry) Len() int { return len(r.items) }

// All returns the backing slice. Callers may mutate elements in place but
// must not retain the slice across a Clear or Spawn.
func (r *Registry) All() []Particle { return r.items }

// At returns a pointer to the i-th particle in insertion order.
func (r *Registry) At(i int) *Particle { return &r.items[i] }

func (r *Registry) Add(ps ...Particle) {
	r.items = append(r.items, ps...)
}

// Clear removes every particle, keeping the allocation.
func (r *Registry) Clear() {
	r.items = r.items[:0]
}

// Rescale sets every particle's visual scale to radius / OriginalRadius.
// A particle spawned with a zero radius gets scale 1 when radius is also zero
// and +Inf otherwise. Positions and velocities are left alone.
func (r *Registry) Rescale(radius float64) {
	for i := range r.items {
		p := &r.items[i]
		switch {
		case p.OriginalRadius != 0:
			p.Scale = radius / p.OriginalRadius
		case radius == 0:
			p.Scale = 1
		default:
			p.Scale = math.Inf(1)
		}
	}
}

// Spawn places amount new resting particles with the given layout and
// returns how many were added.
func (r *Registry) Spawn(layout Layout, amount uint64, radius float64, extent Extent) int {
	if amount == 0 {
		return 0
	}
	amount = min(amount, MaxSpawn)
	positions := layout.Place(amount, radius, extent)
	if cap(r.items)-len(r.items) < len(positions) {
		grown := make([]Particle, len(r.items), len(r.items)+len(positions))
		copy(grown, r.items)
		r.items = grown
	}
	for _, pos := range positions {
		r.items = append(r.items, New(pos, radius))
	}
	return len(positions)
}
