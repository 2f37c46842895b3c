package sim

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
)

func TestGravityIntegration(t *testing.T) {
	s := newTestSim()
	g := r2.Vec{X: 0, Y: -90.8}
	s.rules.Physics.Gravity = g
	place(s, at(0, 0))

	dt := 0.1
	big := viewport(1e6, 1e6)

	s.applyGravity(dt)
	v := s.Particles()[0].Velocity
	if math.Abs(v.Y-g.Y*dt) > 1e-12 || v.X != 0 {
		t.Fatalf("expected velocity %v, got %v", r2.Scale(dt, g), v)
	}
	s.integrate(dt)
	p := s.Particles()[0].Position
	if math.Abs(p.Y-g.Y*dt*dt) > 1e-12 {
		t.Errorf("expected position y %f, got %f", g.Y*dt*dt, p.Y)
	}

	// Same thing through the full tick.
	s2 := newTestSim()
	s2.rules.Physics.Gravity = g
	place(s2, at(0, 0))
	if _, err := s2.Step(Input{Dt: dt, Viewport: big}); err != nil {
		t.Fatal(err)
	}
	got := s2.Particles()[0]
	if math.Abs(got.Velocity.Y-g.Y*dt) > 1e-12 {
		t.Errorf("tick velocity: got %f want %f", got.Velocity.Y, g.Y*dt)
	}
	if math.Abs(got.Position.Y-g.Y*dt*dt) > 1e-12 {
		t.Errorf("tick position: got %f want %f", got.Position.Y, g.Y*dt*dt)
	}
}

func TestStepInvalidDt(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"negative", -0.01},
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim()
			s.Submit(AddParticles{Count: 3})
			_, err := s.Step(Input{Dt: tt.dt, Viewport: viewport(100, 100)})
			if !errors.Is(err, ErrInvalidDt) {
				t.Fatalf("expected ErrInvalidDt, got %v", err)
			}
			var stepErr *StepError
			if !errors.As(err, &stepErr) {
				t.Fatalf("expected *StepError, got %T", err)
			}
			if s.Len() != 0 || s.Pending() != 1 || s.Tick() != 0 {
				t.Errorf("invalid dt must not advance the world: len=%d pending=%d tick=%d", s.Len(), s.Pending(), s.Tick())
			}
		})
	}
}

func TestStepZeroDt(t *testing.T) {
	s := newTestSim()
	place(s, moving(0, 0, 3, 4))
	if _, err := s.Step(Input{Dt: 0, Viewport: viewport(100, 100)}); err != nil {
		t.Fatalf("zero dt should be accepted: %v", err)
	}
	if s.Particles()[0].Position != (r2.Vec{}) {
		t.Error("zero dt should not move particles")
	}
}

func TestStepWithoutViewportSkipsBoundary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := newTestSim(WithLogger(logger))
	place(s, moving(500, 0, 10, 0))

	info, err := s.Step(Input{Dt: 0.1})
	if err != nil {
		t.Fatalf("missing viewport must not fail the tick: %v", err)
	}
	if info.Contained {
		t.Error("boundary step should be skipped")
	}
	if got := s.Particles()[0].Position.X; math.Abs(got-501) > 1e-12 {
		t.Errorf("expected free motion to x=501, got %f", got)
	}
	if !strings.Contains(buf.String(), "boundary_skipped") {
		t.Errorf("expected a boundary_skipped log line, got %q", buf.String())
	}
	if s.Tick() != 1 {
		t.Errorf("expected tick to advance, got %d", s.Tick())
	}
}

func TestBoundaryReflection(t *testing.T) {
	const (
		halfW = 100.0
		speed = 30.0
	)
	tests := []struct {
		name  string
		start particle.Particle
		wantP r2.Vec
		wantV r2.Vec
	}{
		{"right wall", moving(halfW-DefaultRadius+1, 0, speed, 0), r2.Vec{X: halfW - DefaultRadius}, r2.Vec{X: -speed * DefaultDampening}},
		{"left wall", moving(-halfW+DefaultRadius-1, 0, -speed, 0), r2.Vec{X: -halfW + DefaultRadius}, r2.Vec{X: speed * DefaultDampening}},
		{"top wall", moving(0, halfW-DefaultRadius+2, 0, speed), r2.Vec{Y: halfW - DefaultRadius}, r2.Vec{Y: -speed * DefaultDampening}},
		{"bottom wall", moving(0, -halfW, 0, -speed), r2.Vec{Y: -halfW + DefaultRadius}, r2.Vec{Y: speed * DefaultDampening}},
		{"corner", moving(halfW, halfW, speed, speed), r2.Vec{X: halfW - DefaultRadius, Y: halfW - DefaultRadius}, r2.Vec{X: -speed * DefaultDampening, Y: -speed * DefaultDampening}},
		{"inside", moving(0, 0, speed, 0), r2.Vec{}, r2.Vec{X: speed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim()
			place(s, tt.start)
			if _, err := s.Step(Input{Dt: 0, Viewport: viewport(2*halfW, 2*halfW)}); err != nil {
				t.Fatal(err)
			}
			got := s.Particles()[0]
			if r2.Norm(r2.Sub(got.Position, tt.wantP)) > 1e-9 {
				t.Errorf("position: got %v, want %v", got.Position, tt.wantP)
			}
			if r2.Norm(r2.Sub(got.Velocity, tt.wantV)) > 1e-9 {
				t.Errorf("velocity: got %v, want %v", got.Velocity, tt.wantV)
			}
		})
	}
}

func TestBoundaryFrameCoupling(t *testing.T) {
	s := newTestSim()
	s.rules.Particle.Dampening = 0.5
	s.SetFreeze(true)
	place(s, moving(-88, 0, -4, 0), at(0, 0))
	vp := viewport(200, 200)

	if _, err := s.Step(Input{Dt: 0.5, Viewport: vp, FramePosition: &r2.Vec{}}); err != nil {
		t.Fatal(err)
	}
	info, err := s.Step(Input{Dt: 0.5, Viewport: vp, FramePosition: &r2.Vec{X: 5, Y: -3}})
	if err != nil {
		t.Fatal(err)
	}
	if info.Frame.Delta != (r2.Vec{X: 5, Y: -3}) || info.Frame.Velocity != (r2.Vec{X: 10, Y: -6}) {
		t.Fatalf("unexpected frame motion: delta %v velocity %v", info.Frame.Delta, info.Frame.Velocity)
	}

	wall := s.Particles()[0]
	if wall.Position.X != -90 || wall.Position.Y != -3 {
		t.Errorf("wall particle position: got %v", wall.Position)
	}
	if wall.Velocity.X != 4*0.5+10 {
		t.Errorf("bounce should pick up frame velocity: got %f, want 12", wall.Velocity.X)
	}
	if wall.Velocity.Y != 0 {
		t.Errorf("no vertical bounce expected, got %f", wall.Velocity.Y)
	}

	free := s.Particles()[1]
	if free.Position != (r2.Vec{X: -5, Y: -3}) || free.Velocity != (r2.Vec{}) {
		t.Errorf("free particle: got pos %v vel %v", free.Position, free.Velocity)
	}
}

func TestContainmentPolicy(t *testing.T) {
	for _, contain := range []bool{true, false} {
		s := newTestSim(WithPolicy(Policy{ContainWhileFrozen: contain}))
		s.SetFreeze(true)
		place(s, moving(200, 0, 10, 0))

		info, err := s.Step(Input{Dt: 0.1, Viewport: viewport(100, 100)})
		if err != nil {
			t.Fatal(err)
		}
		if info.Contained != contain {
			t.Errorf("contain=%v: info.Contained=%v", contain, info.Contained)
		}
		x := s.Particles()[0].Position.X
		if contain && x != 40 {
			t.Errorf("expected containment to clamp x to 40, got %f", x)
		}
		if !contain && x != 200 {
			t.Errorf("expected frozen particle to stay at 200, got %f", x)
		}
	}
}

type countingMetric struct {
	samples    int
	collisions int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(info StepInfo, ps []particle.Particle, rules Rules) {
	c.samples++
	c.collisions += info.Collisions
}
func (c *countingMetric) Value() float64 { return float64(c.samples) }
func (c *countingMetric) Reset()         { c.samples, c.collisions = 0, 0 }

func TestSimulatorMetrics(t *testing.T) {
	s := newTestSim()
	m := &countingMetric{}
	s.AddMetric(m)
	place(s, at(0, 0), at(5, 0))

	for i := 0; i < 10; i++ {
		if _, err := s.Step(Input{Dt: 0.01, Viewport: viewport(1000, 1000)}); err != nil {
			t.Fatal(err)
		}
	}

	if m.samples != 10 {
		t.Errorf("expected 10 observations, got %d", m.samples)
	}
	if m.collisions == 0 {
		t.Error("expected the overlapping pair to register a collision")
	}
	if v, ok := s.Metrics()["count"]; !ok || v != 10 {
		t.Errorf("metric not reported: %v", s.Metrics())
	}
	if math.Abs(s.Time()-0.1) > 1e-12 {
		t.Errorf("expected time 0.1, got %f", s.Time())
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newTestSim()
	place(s, at(1, 1))

	snap := s.Snapshot(nil)
	snap[0].Position.X = 99
	if s.Particles()[0].Position.X != 1 {
		t.Error("snapshot must not alias the registry")
	}
}

func TestStepErrorMessage(t *testing.T) {
	err := &StepError{Tick: 150, Time: 1.5, Err: ErrInvalidDt}
	expected := "tick 150 (t=1.5000): sim: invalid timestep"
	if err.Error() != expected {
		t.Errorf("StepError.Error() = %q, want %q", err.Error(), expected)
	}
}
