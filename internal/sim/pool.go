package sim

import (
	"sync"

	"github.com/san-kum/ballpit/internal/particle"
)

// SnapshotPool recycles particle buffers for hosts that render on another
// goroutine.
type SnapshotPool struct {
	pool     sync.Pool
	capacity int
}

func NewSnapshotPool(capacity int) *SnapshotPool {
	return &SnapshotPool{
		capacity: capacity,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]particle.Particle, 0, capacity)
			},
		},
	}
}

func (p *SnapshotPool) Get() []particle.Particle {
	return p.pool.Get().([]particle.Particle)[:0]
}

func (p *SnapshotPool) Put(s []particle.Particle) {
	if cap(s) >= p.capacity {
		p.pool.Put(s[:0])
	}
}

// Capture copies the simulator's particles into a pooled buffer.
func (p *SnapshotPool) Capture(s *Simulator) []particle.Particle {
	return s.Snapshot(p.Get())
}
