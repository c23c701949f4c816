package orbit

import (
	"math"

	"github.com/tandria/orbitlab/internal/vec"
)

// CircularVelocity computes the velocity that places sat on a circular orbit
// around center under gravitational constant g.
//
// Speed is sqrt(g * (M + m) / d), clamped to maxSpeed when maxSpeed > 0 (the
// clamp keeps very tight orbits from ejecting the satellite). Direction is
// the radius vector rotated 90 degrees, so center's own velocity composes in
// for a moving reference body.
//
// Precondition: sat and center must not coincide. The scenario generator
// guarantees a non-zero offset; a zero radius would yield a zero direction.
func CircularVelocity(sat, center *Body, g, maxSpeed float64) vec.Vec2 {
	diff := sat.Pos.Sub(center.Pos)
	dist := diff.Length()

	speed := math.Sqrt(g * (center.Mass + sat.Mass) / dist)
	if maxSpeed > 0 && speed > maxSpeed {
		speed = maxSpeed
	}

	tangent := diff.Perp().Normalize()
	return tangent.Scale(speed).Add(center.Vel)
}
