package sim

import "testing"

func TestSnapshotPool(t *testing.T) {
	pool := NewSnapshotPool(8)

	buf := pool.Get()
	if len(buf) != 0 || cap(buf) < 8 {
		t.Errorf("pool returned len=%d cap=%d", len(buf), cap(buf))
	}
	pool.Put(buf)

	s := newTestSim()
	place(s, at(1, 2), at(3, 4))

	snap := pool.Capture(s)
	if len(snap) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(snap))
	}
	snap[0].Position.X = 99
	if s.Particles()[0].Position.X != 1 {
		t.Error("Capture did not create an independent copy")
	}
	pool.Put(snap)

	again := pool.Get()
	if len(again) != 0 {
		t.Error("pooled buffer should come back empty")
	}
}
