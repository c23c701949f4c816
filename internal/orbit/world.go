package orbit

import (
	"math"

	"github.com/tandria/orbitlab/internal/vec"
)

// World owns the live body collection and advances it tick by tick.
type World struct {
	Bodies []*Body

	// G is the gravitational constant after display scaling.
	G float64
	// CullDistance removes bodies farther than this from the origin.
	// Zero disables culling.
	CullDistance float64

	ticks int
}

func NewWorld(bodies []*Body, g, cullDistance float64) *World {
	return &World{
		Bodies:       bodies,
		G:            g,
		CullDistance: cullDistance,
	}
}

// Ticks reports how many ticks have been stepped, paused ticks included.
func (w *World) Ticks() int { return w.ticks }

// Reset replaces the body collection wholesale.
func (w *World) Reset(bodies []*Body) {
	w.Bodies = bodies
	w.ticks = 0
}

// Step advances the simulation one tick.
//
// Force accumulation reads a snapshot taken at the start of the tick, so the
// kick applied between any pair depends only on start-of-tick state and not
// on iteration order. When paused, accumulation and movement are skipped but
// culling still runs; a frozen world doesn't move, so culling is idempotent.
func (w *World) Step(paused bool) {
	w.ticks++

	if !paused {
		snapshot := make([]*Body, len(w.Bodies))
		for i, b := range w.Bodies {
			snapshot[i] = b.Clone()
		}

		for i, b := range w.Bodies {
			for j, other := range snapshot {
				if i == j {
					continue
				}
				b.AccumulateGravity(other, w.G)
			}
		}

		for _, b := range w.Bodies {
			b.RecordAndMove(1.0)
		}
	}

	w.cull()
}

func (w *World) cull() {
	if w.CullDistance <= 0 {
		return
	}
	kept := w.Bodies[:0]
	for _, b := range w.Bodies {
		if b.Pos.Length() <= w.CullDistance {
			kept = append(kept, b)
		}
	}
	// release culled tails
	for i := len(kept); i < len(w.Bodies); i++ {
		w.Bodies[i] = nil
	}
	w.Bodies = kept
}

// Energy returns kinetic plus pairwise potential energy. Diagnostic only;
// nothing feeds it back into the integration.
func (w *World) Energy() float64 {
	ke := 0.0
	pe := 0.0
	for i, b := range w.Bodies {
		ke += 0.5 * b.Mass * b.Vel.LengthSquared()
		for j := i + 1; j < len(w.Bodies); j++ {
			o := w.Bodies[j]
			d2 := b.Pos.DistanceSquared(o.Pos)
			if d2 < minDistSq {
				d2 = minDistSq
			}
			pe -= w.G * b.Mass * o.Mass / math.Sqrt(d2)
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum.
func (w *World) Momentum() vec.Vec2 {
	var p vec.Vec2
	for _, b := range w.Bodies {
		p = p.Add(b.Vel.Scale(b.Mass))
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func (w *World) AngularMomentum() float64 {
	l := 0.0
	for _, b := range w.Bodies {
		l += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return l
}
