package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ballpit/internal/particle"
	"github.com/san-kum/ballpit/internal/sim"
)

// Speed tracks the mean and standard deviation of particle speeds at the
// latest tick.
type Speed struct {
	name   string
	speeds []float64
	mean   float64
	std    float64
}

func NewSpeed() *Speed {
	return &Speed{name: "mean_speed"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) Observe(_ sim.StepInfo, ps []particle.Particle, _ sim.Rules) {
	s.speeds = s.speeds[:0]
	for _, p := range ps {
		s.speeds = append(s.speeds, p.Speed())
	}
	switch len(s.speeds) {
	case 0:
		s.mean, s.std = 0, 0
	case 1:
		s.mean, s.std = s.speeds[0], 0
	default:
		s.mean, s.std = stat.MeanStdDev(s.speeds, nil)
	}
}

func (s *Speed) Value() float64  { return s.mean }
func (s *Speed) StdDev() float64 { return s.std }

func (s *Speed) Reset() {
	s.speeds = s.speeds[:0]
	s.mean, s.std = 0, 0
}

// Collisions counts resolved contacts, cumulatively across ticks.
type Collisions struct {
	name  string
	last  int
	total int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(info sim.StepInfo, _ []particle.Particle, _ sim.Rules) {
	c.last = info.Collisions
	c.total += info.Collisions
}

func (c *Collisions) Value() float64 { return float64(c.total) }
func (c *Collisions) Last() int      { return c.last }

func (c *Collisions) Reset() {
	c.last = 0
	c.total = 0
}

// Standard returns the metric set attached to every headless run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMomentum(),
		NewMaxPenetration(),
		NewContainment(),
		NewSpeed(),
		NewCollisions(),
	}
}
