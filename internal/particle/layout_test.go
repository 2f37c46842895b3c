package particle

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestGridPlace(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		width  float64
		radius float64
		want   []r2.Vec
	}{
		{
			name:   "six at width two",
			amount: 6,
			width:  2,
			want: []r2.Vec{
				{X: -6, Y: -6}, {X: -4, Y: -6}, {X: -2, Y: -6},
				{X: -6, Y: -4}, {X: -4, Y: -4}, {X: -2, Y: -4},
			},
		},
		{
			name:   "fewer than width keeps one column",
			amount: 3,
			width:  10,
			want:   []r2.Vec{{X: -10, Y: -10}, {X: -10, Y: 0}, {X: -10, Y: 10}},
		},
		{
			name:   "zero width falls back to diameter",
			amount: 4,
			width:  0,
			radius: 1,
			want:   []r2.Vec{{X: -4, Y: -4}, {X: -2, Y: -4}, {X: -4, Y: -2}, {X: -2, Y: -2}},
		},
		{
			name:   "empty",
			amount: 0,
			width:  2,
			want:   []r2.Vec{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGrid(tt.width).Place(tt.amount, tt.radius, Extent{})
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d positions, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRandomPlaceWithinExtent(t *testing.T) {
	l := NewRandom(42)
	extent := Extent{Width: 200, Height: 100}

	got := l.Place(500, 5, extent)
	if len(got) != 500 {
		t.Fatalf("expected 500 positions, got %d", len(got))
	}
	for i, p := range got {
		if p.X < -100 || p.X >= 100 || p.Y < -50 || p.Y >= 50 {
			t.Errorf("position %d out of extent: %v", i, p)
		}
	}
}

func TestRandomPlaceSeeded(t *testing.T) {
	extent := Extent{Width: 10, Height: 10}
	a := NewRandom(7).Place(10, 1, extent)
	b := NewRandom(7).Place(10, 1, extent)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestNewLayout(t *testing.T) {
	for _, name := range ListLayouts() {
		l, err := NewLayout(name, LayoutOptions{Seed: 1, GridWidth: 2})
		if err != nil {
			t.Fatalf("layout %s: %v", name, err)
		}
		if l.Name() != name {
			t.Errorf("expected name %s, got %s", name, l.Name())
		}
	}

	_, err := NewLayout("hexagonal", LayoutOptions{})
	if !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("expected ErrUnknownLayout, got %v", err)
	}
}
