package sim

import "gonum.org/v1/gonum/spatial/r2"

// Viewport is the host window's extent. The world is centered on it.
type Viewport struct {
	Width, Height float64
}

func (v Viewport) HalfExtents() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// FrameMotion derives the boundary's own motion from successive viewport
// positions.
type FrameMotion struct {
	last     *r2.Vec
	Velocity r2.Vec
	Delta    r2.Vec
}

// Update records the current viewport position. A nil position (untracked
// frame) or a missing previous position gives zero velocity and delta.
func (f *FrameMotion) Update(pos *r2.Vec, dt float64) {
	if pos == nil {
		f.last = nil
		f.Velocity = r2.Vec{}
		f.Delta = r2.Vec{}
		return
	}

	if f.last == nil {
		f.Velocity = r2.Vec{}
		f.Delta = r2.Vec{}
	} else {
		f.Delta = r2.Sub(*pos, *f.last)
		if dt > 0 {
			f.Velocity = r2.Scale(1/dt, f.Delta)
		} else {
			f.Velocity = r2.Vec{}
		}
	}

	p := *pos
	f.last = &p
}

// Tracking reports whether a previous position is known.
func (f *FrameMotion) Tracking() bool { return f.last != nil }
