// Package colorgen produces deterministic, visually distinct color sequences
// for diagram node types.
//
// Colors are sampled along a phyllotactic spiral: the i-th color sits at the
// golden angle (~137.5°) times i on a fixed-radius circle in the CIE-Lab a/b
// plane at fixed lightness. Successive samples land far apart on the hue
// wheel, which keeps neighboring types visually distinct without any
// configuration. The sequence wraps around after [Palette.Total] entries so
// an unbounded number of types still yields stable colors.
package colorgen

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTotal is the number of distinct colors before the sequence repeats.
const DefaultTotal = 32

const (
	// goldenAngle is the phyllotactic divergence angle in radians (~137.5°).
	goldenAngle = math.Pi * (3.0 - 2.2360679774997896) // π(3−√5)

	// radius is the chroma distance from the neutral axis in the a/b plane.
	radius = 0.33

	// lightness is the fixed L component for all generated colors.
	lightness = 0.72
)

// Palette is a deterministic color sequence. The zero value is not usable;
// construct with [New]. Palette carries no hidden cursor: callers index
// colors explicitly, so two callers sharing a Palette cannot perturb each
// other's sequences.
type Palette struct {
	total int
}

// New returns a Palette that cycles after [DefaultTotal] colors.
func New() *Palette {
	return NewWithTotal(DefaultTotal)
}

// NewWithTotal returns a Palette that cycles after total colors.
// A total below 1 is treated as 1.
func NewWithTotal(total int) *Palette {
	if total < 1 {
		total = 1
	}
	return &Palette{total: total}
}

// Total returns the cycle length of the palette.
func (p *Palette) Total() int { return p.total }

// Color returns the i-th color of the sequence as a hex string ("#rrggbb").
// Indices wrap: Color(i) == Color(i % Total()). Negative indices wrap the
// same way, so Color(-1) == Color(Total()-1).
func (p *Palette) Color(i int) string {
	i %= p.total
	if i < 0 {
		i += p.total
	}
	theta := goldenAngle * float64(i)
	a := radius * math.Cos(theta)
	b := radius * math.Sin(theta)
	return colorful.Lab(lightness, a, b).Clamped().Hex()
}

// Sequence returns the first n colors of the palette.
func (p *Palette) Sequence(n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	for i := range out {
		out[i] = p.Color(i)
	}
	return out
}
