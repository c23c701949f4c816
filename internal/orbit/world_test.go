package orbit

import (
	"math"
	"testing"

	"github.com/tandria/orbitlab/internal/vec"
)

func testWorld(bodies ...*Body) *World {
	return NewWorld(bodies, testG, 0)
}

func TestWorld_Step_Paused(t *testing.T) {
	a := NewBody(vec.New(0, 0), vec.New(1, 0), 100, RGBA{A: 255}, 10)
	b := NewBody(vec.New(200, 0), vec.Vec2{}, 100, RGBA{A: 255}, 10)
	w := testWorld(a, b)

	w.Step(true)

	if !a.Pos.IsZero() {
		t.Errorf("paused step moved a body to %v", a.Pos)
	}
	if a.Vel.X != 1 || a.Vel.Y != 0 {
		t.Errorf("paused step accumulated gravity: %v", a.Vel)
	}
	if len(a.Trail) != 0 {
		t.Errorf("paused step recorded a trail entry")
	}
	if w.Ticks() != 1 {
		t.Errorf("tick counter should advance while paused, got %d", w.Ticks())
	}
}

// The kick between any pair must depend only on start-of-tick state, not on
// which body is processed first.
func TestWorld_Step_OrderIndependent(t *testing.T) {
	build := func(order ...int) *World {
		bodies := []*Body{
			NewBody(vec.New(-100, 0), vec.Vec2{}, 1000, RGBA{A: 255}, 0),
			NewBody(vec.New(100, 0), vec.Vec2{}, 2000, RGBA{A: 255}, 0),
			NewBody(vec.New(0, 150), vec.Vec2{}, 3000, RGBA{A: 255}, 0),
		}
		permuted := make([]*Body, len(order))
		for i, idx := range order {
			permuted[i] = bodies[idx]
		}
		return testWorld(permuted...)
	}

	w1 := build(0, 1, 2)
	w2 := build(2, 1, 0)
	w1.Step(false)
	w2.Step(false)

	// match bodies by initial mass
	byMass := func(w *World) map[float64]vec.Vec2 {
		m := make(map[float64]vec.Vec2)
		for _, b := range w.Bodies {
			m[b.Mass] = b.Vel
		}
		return m
	}
	v1, v2 := byMass(w1), byMass(w2)
	for mass, vel := range v1 {
		other := v2[mass]
		if math.Abs(vel.X-other.X) > 1e-12 || math.Abs(vel.Y-other.Y) > 1e-12 {
			t.Errorf("mass %g: velocity %v vs %v depending on iteration order", mass, vel, other)
		}
	}
}

func TestWorld_Step_SnapshotConsistency(t *testing.T) {
	a := NewBody(vec.New(0, 0), vec.Vec2{}, 1000, RGBA{A: 255}, 0)
	b := NewBody(vec.New(100, 0), vec.Vec2{}, 1000, RGBA{A: 255}, 0)
	w := testWorld(a, b)

	w.Step(false)

	// equal masses at the same separation: kicks must be exactly
	// symmetric, which only holds if both read the same snapshot
	if math.Abs(a.Vel.X+b.Vel.X) > 1e-12 {
		t.Errorf("asymmetric kicks: %v vs %v", a.Vel.X, b.Vel.X)
	}
}

func TestWorld_Cull(t *testing.T) {
	inside := NewBody(vec.New(100, 100), vec.Vec2{}, 100, RGBA{A: 255}, 0)
	outside := NewBody(vec.New(4000, 3000), vec.Vec2{}, 100, RGBA{A: 255}, 0) // |pos| = 5000
	w := NewWorld([]*Body{inside, outside}, testG, 4999)

	w.Step(false)

	if len(w.Bodies) != 1 {
		t.Fatalf("expected 1 body after cull, got %d", len(w.Bodies))
	}
	if w.Bodies[0] != inside {
		t.Error("wrong body culled")
	}
}

func TestWorld_Cull_ExactThresholdKept(t *testing.T) {
	at := NewBody(vec.New(3000, 4000), vec.Vec2{}, 100, RGBA{A: 255}, 0) // |pos| = 5000
	w := NewWorld([]*Body{at}, testG, 5000)

	w.Step(true) // paused tick still culls

	if len(w.Bodies) != 1 {
		t.Error("body exactly at the cull distance should be kept")
	}
}

func TestWorld_Cull_Disabled(t *testing.T) {
	far := NewBody(vec.New(1e9, 0), vec.Vec2{}, 100, RGBA{A: 255}, 0)
	w := NewWorld([]*Body{far}, testG, 0)

	w.Step(false)

	if len(w.Bodies) != 1 {
		t.Error("culling should be disabled when CullDistance is 0")
	}
}

func TestWorld_Reset(t *testing.T) {
	w := testWorld(NewBody(vec.Vec2{}, vec.Vec2{}, 100, RGBA{A: 255}, 0))
	w.Step(false)
	w.Step(false)

	replacement := []*Body{
		NewBody(vec.New(1, 1), vec.Vec2{}, 200, RGBA{A: 255}, 0),
	}
	w.Reset(replacement)

	if w.Ticks() != 0 {
		t.Errorf("reset should zero the tick counter, got %d", w.Ticks())
	}
	if len(w.Bodies) != 1 || w.Bodies[0].Mass != 200 {
		t.Error("reset did not replace the body collection")
	}
}

func TestWorld_Diagnostics(t *testing.T) {
	a := NewBody(vec.New(-100, 0), vec.New(0, 1), 1000, RGBA{A: 255}, 0)
	b := NewBody(vec.New(100, 0), vec.New(0, -1), 1000, RGBA{A: 255}, 0)
	w := testWorld(a, b)

	ke := 0.5*1000*1.0 + 0.5*1000*1.0
	pe := -testG * 1000 * 1000 / 200.0
	if got := w.Energy(); math.Abs(got-(ke+pe)) > 1e-9 {
		t.Errorf("Energy = %v, want %v", got, ke+pe)
	}

	p := w.Momentum()
	if math.Abs(p.X) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Errorf("opposite equal momenta should cancel, got %v", p)
	}

	// both bodies circulate the same way: L = m(x·vy − y·vx)
	wantL := 1000*(-100*1.0) + 1000*(100*-1.0)
	if got := w.AngularMomentum(); math.Abs(got-wantL) > 1e-9 {
		t.Errorf("AngularMomentum = %v, want %v", got, wantL)
	}
}

func TestWorld_TrailsDuringStepping(t *testing.T) {
	sun := NewBody(vec.Vec2{}, vec.Vec2{}, 1_500_000, SunColor, 3)
	sat := NewBody(vec.New(400, 0), vec.Vec2{}, 1000, RGBA{A: 255}, 3)
	sat.Vel = CircularVelocity(sat, sun, testG, 0)
	w := testWorld(sat, sun)

	for i := 0; i < 10; i++ {
		w.Step(false)
		for _, b := range w.Bodies {
			if len(b.Trail) > 3 {
				t.Fatalf("trail bound violated: %d", len(b.Trail))
			}
		}
	}
}
