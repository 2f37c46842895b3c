package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
	"github.com/san-kum/ballpit/internal/sim"
)

// MaxPenetration is the deepest pair overlap left after the tick, as a
// fraction of the particle diameter. The worst value seen is kept.
type MaxPenetration struct {
	name    string
	current float64
	worst   float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(_ sim.StepInfo, ps []particle.Particle, rules sim.Rules) {
	diameter := 2 * rules.Particle.Radius
	m.current = 0
	if diameter <= 0 {
		return
	}
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			depth := diameter - r2.Norm(r2.Sub(ps[i].Position, ps[j].Position))
			m.current = math.Max(m.current, depth/diameter)
		}
	}
	m.worst = math.Max(m.worst, m.current)
}

func (m *MaxPenetration) Value() float64   { return m.worst }
func (m *MaxPenetration) Current() float64 { return m.current }

func (m *MaxPenetration) Reset() {
	m.current = 0
	m.worst = 0
}

// Containment is the fraction of particles fully inside the viewport. Ticks
// without a viewport leave the previous value in place.
type Containment struct {
	name  string
	value float64
}

func NewContainment() *Containment {
	return &Containment{name: "containment", value: 1}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(info sim.StepInfo, ps []particle.Particle, rules sim.Rules) {
	if info.Viewport == nil {
		return
	}
	if len(ps) == 0 {
		c.value = 1
		return
	}
	halfW, halfH := info.Viewport.HalfExtents()
	r := rules.Particle.Radius
	inside := 0
	for _, p := range ps {
		if math.Abs(p.Position.X)+r <= halfW && math.Abs(p.Position.Y)+r <= halfH {
			inside++
		}
	}
	c.value = float64(inside) / float64(len(ps))
}

func (c *Containment) Value() float64 { return c.value }
func (c *Containment) Reset()         { c.value = 1 }
