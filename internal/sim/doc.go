// Package sim is the particle physics kernel.
//
// One call to [Simulator.Step] advances the world by a host-supplied dt:
//
//   - drain the command queue ([Command]) into the rules and registry
//   - track the viewport motion ([FrameMotion])
//   - unless frozen: gravity, pairwise collisions, motion integration
//   - boundary containment against the (possibly moving) viewport
//
// All particles share a single [Rules] value; changing the radius rescales
// every live particle at once.
//
// # Example
//
//	s := sim.New(sim.DefaultRules())
//	s.Submit(sim.AddParticles{Count: 100})
//	vp := sim.Viewport{Width: 800, Height: 600}
//	info, err := s.Step(sim.Input{Dt: 1.0 / 60, Viewport: &vp})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. The host reads particles between
// ticks; use [Simulator.Snapshot] or a [SnapshotPool] when rendering runs on
// another goroutine.
package sim
