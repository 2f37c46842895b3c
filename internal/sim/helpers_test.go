package sim

import (
	"io"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSim returns a simulator with no gravity and a deterministic grid layout.
func newTestSim(opts ...Option) *Simulator {
	rules := DefaultRules()
	rules.Physics.Gravity = r2.Vec{}
	base := []Option{WithLogger(quietLogger()), WithLayout(particle.NewGrid(0))}
	return New(rules, append(base, opts...)...)
}

func place(s *Simulator, ps ...particle.Particle) {
	s.registry.Add(ps...)
}

func at(x, y float64) particle.Particle {
	return particle.New(r2.Vec{X: x, Y: y}, DefaultRadius)
}

func moving(x, y, vx, vy float64) particle.Particle {
	p := at(x, y)
	p.Velocity = r2.Vec{X: vx, Y: vy}
	return p
}

func viewport(w, h float64) *Viewport {
	return &Viewport{Width: w, Height: h}
}
