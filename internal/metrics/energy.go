package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
	"github.com/san-kum/ballpit/internal/sim"
)

// KineticEnergy reports the total kinetic energy of the population at the
// latest tick, using the shared particle mass.
type KineticEnergy struct {
	name  string
	value float64
	peak  float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(_ sim.StepInfo, ps []particle.Particle, rules sim.Rules) {
	k.value = TotalKineticEnergy(ps, rules.Particle.Mass)
	if k.value > k.peak {
		k.peak = k.value
	}
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Peak() float64  { return k.peak }

func (k *KineticEnergy) Reset() {
	k.value = 0
	k.peak = 0
}

func TotalKineticEnergy(ps []particle.Particle, mass float64) float64 {
	var e float64
	for _, p := range ps {
		e += 0.5 * mass * r2.Norm2(p.Velocity)
	}
	return e
}

// Momentum reports the magnitude of the population's total linear momentum.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(_ sim.StepInfo, ps []particle.Particle, rules sim.Rules) {
	var total r2.Vec
	for _, p := range ps {
		total = r2.Add(total, p.Velocity)
	}
	m.value = rules.Particle.Mass * r2.Norm(total)
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }
