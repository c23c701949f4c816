package orbit

import (
	"math"

	"github.com/tandria/orbitlab/internal/vec"
)

// minDistSq keeps the gravity denominator away from zero when two bodies
// nearly coincide.
const minDistSq = 1e-9

// RGBA is a display color. Physics never reads it.
type RGBA struct {
	R, G, B, A uint8
}

// Body is one point mass: position, per-tick velocity, mass, display color,
// and a bounded history of past positions (most recent first).
type Body struct {
	Pos   vec.Vec2
	Vel   vec.Vec2
	Mass  float64
	Color RGBA

	Trail    []vec.Vec2
	trailMax int
}

// NewBody constructs a body with all physically meaningful fields explicit.
// Mass must be >= 1 so the logarithmic render radius stays defined; that
// invariant is enforced by the scenario generator, not here.
func NewBody(pos, vel vec.Vec2, mass float64, color RGBA, trailMax int) *Body {
	if trailMax < 0 {
		trailMax = 0
	}
	return &Body{
		Pos:      pos,
		Vel:      vel,
		Mass:     mass,
		Color:    color,
		Trail:    make([]vec.Vec2, 0, trailMax),
		trailMax: trailMax,
	}
}

// Clone returns a deep copy. Used for start-of-tick snapshots.
func (b *Body) Clone() *Body {
	c := *b
	c.Trail = make([]vec.Vec2, len(b.Trail))
	copy(c.Trail, b.Trail)
	return &c
}

// TrailMax reports the trail length bound.
func (b *Body) TrailMax() int { return b.trailMax }

// RecordAndMove pushes the current position onto the front of the trail,
// evicts the oldest entries past the bound, then advances the position by
// one velocity step scaled by scale.
func (b *Body) RecordAndMove(scale float64) {
	if b.trailMax > 0 {
		b.Trail = append(b.Trail, vec.Vec2{})
		copy(b.Trail[1:], b.Trail)
		b.Trail[0] = b.Pos
		if len(b.Trail) > b.trailMax {
			b.Trail = b.Trail[:b.trailMax]
		}
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(scale))
}

// AccumulateGravity adds the velocity kick from other onto b.
//
// The acceleration magnitude is g * other.Mass / d² — the division by b's own
// mass is intentionally omitted, so every body responds as if it had unit
// mass. This matches the system being modeled; do not "correct" it.
func (b *Body) AccumulateGravity(other *Body, g float64) {
	d2 := b.Pos.DistanceSquared(other.Pos)
	if d2 < minDistSq {
		d2 = minDistSq
	}
	a := g * other.Mass / d2
	dir := other.Pos.Sub(b.Pos).Normalize()
	b.Vel = b.Vel.Add(dir.Scale(a))
}

// RenderRadius is the display radius for the body: ln(mass), clamped to a
// minimum of 1 so very light bodies stay visible.
func (b *Body) RenderRadius() float64 {
	r := math.Log(b.Mass)
	if r < 1 {
		return 1
	}
	return r
}
