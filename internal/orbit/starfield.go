package orbit

import (
	"math/rand"

	"github.com/tandria/orbitlab/internal/vec"
)

// flickerChance is the per-star, per-frame probability of being skipped,
// which reads as a twinkle.
const flickerChance = 0.05

// Star is one decorative background star. Stars never interact with bodies.
type Star struct {
	Pos       vec.Vec2
	Magnitude float64
}

// Starfield is a fixed backdrop generated once per scenario.
type Starfield struct {
	Stars []Star
	rng   *rand.Rand
}

// NewStarfield scatters n stars uniformly over the ±halfWidth × ±halfHeight
// region with magnitudes in [0.1, 1.1).
func NewStarfield(n int, halfWidth, halfHeight float64, rng *rand.Rand) *Starfield {
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			Pos: vec.New(
				(rng.Float64()*2-1)*halfWidth,
				(rng.Float64()*2-1)*halfHeight,
			),
			Magnitude: 0.1 + rng.Float64(),
		}
	}
	return &Starfield{Stars: stars, rng: rng}
}

// Visible reports whether star i should be drawn this frame.
func (s *Starfield) Visible(i int) bool {
	return s.rng.Float64() >= flickerChance
}
