package particle

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

var ErrUnknownLayout = errors.New("particle: unknown spawn layout")

// Extent is the full width and height of the world, centered at the origin.
type Extent struct {
	Width, Height float64
}

// Layout decides where a batch of new particles goes.
type Layout interface {
	Name() string
	Place(amount uint64, radius float64, extent Extent) []r2.Vec
}

// Random scatters particles uniformly over the whole extent.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (l *Random) Name() string { return "random" }

func (l *Random) Place(amount uint64, _ float64, extent Extent) []r2.Vec {
	out := make([]r2.Vec, 0, min(amount, MaxSpawn))
	for i := uint64(0); i < amount; i++ {
		out = append(out, r2.Vec{
			X: l.rng.Float64()*extent.Width - extent.Width/2,
			Y: l.rng.Float64()*extent.Height - extent.Height/2,
		})
	}
	return out
}

// Grid lays particles out row by row with a fixed spacing. It ignores the
// extent, so the placement is fully deterministic.
type Grid struct {
	// Spacing between neighbours; <= 0 means twice the radius.
	Width float64
}

func NewGrid(width float64) *Grid {
	return &Grid{Width: width}
}

func (l *Grid) Name() string { return "grid" }

func (l *Grid) Place(amount uint64, radius float64, _ Extent) []r2.Vec {
	w := l.Width
	if w <= 0 {
		w = 2 * radius
	}

	columns := uint64(1)
	if w > 0 {
		if c := uint64(math.Floor(float64(amount) / w)); c > 0 {
			columns = c
		}
	}

	origin := -float64(columns) * w
	out := make([]r2.Vec, 0, min(amount, MaxSpawn))
	for i := uint64(0); i < amount; i++ {
		row, col := i/columns, i%columns
		out = append(out, r2.Vec{
			X: origin + float64(col)*w,
			Y: origin + float64(row)*w,
		})
	}
	return out
}

type LayoutOptions struct {
	Seed      int64
	GridWidth float64
}

var layouts = map[string]func(LayoutOptions) Layout{
	"random": func(o LayoutOptions) Layout { return NewRandom(o.Seed) },
	"grid":   func(o LayoutOptions) Layout { return NewGrid(o.GridWidth) },
}

func NewLayout(name string, opts LayoutOptions) (Layout, error) {
	fn, ok := layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return fn(opts), nil
}

func ListLayouts() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
