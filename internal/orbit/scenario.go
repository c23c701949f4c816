package orbit

import (
	"fmt"
	"math/rand"

	"github.com/tandria/orbitlab/internal/vec"
)

// SunColor is the fixed display color of the central body.
var SunColor = RGBA{R: 249, G: 182, B: 17, A: 255}

// minPlacementDist rejects satellite positions too close to the sun, which
// would violate the solver's non-zero-offset precondition and produce
// near-escape speeds.
const minPlacementDist = 10.0

// GeneratorConfig tunes random scenario construction.
type GeneratorConfig struct {
	G       float64 // gravitational constant
	SunMass float64

	MinSatellites int
	MaxSatellites int
	MinMass       float64
	MaxMass       float64

	MaxOrbitRadius float64 // satellites sampled in the ±r box
	Ellipticity    float64 // bound on the one-axis velocity perturbation
	MaxSpeed       float64 // orbital speed clamp, 0 = unclamped

	TrailLength int
	ColorFloor  uint8 // per-channel brightness floor, keeps bodies visible
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		G:              6.674e-4,
		SunMass:        1_500_000,
		MinSatellites:  4,
		MaxSatellites:  12,
		MinMass:        50,
		MaxMass:        1000,
		MaxOrbitRadius: 600,
		Ellipticity:    0.3,
		MaxSpeed:       4.0,
		TrailLength:    2000,
		ColorFloor:     64,
	}
}

func (c GeneratorConfig) validate() error {
	if c.G <= 0 {
		return fmt.Errorf("%w: got %g", ErrGravity, c.G)
	}
	if c.SunMass <= 0 {
		return fmt.Errorf("%w: got %g", ErrSunMass, c.SunMass)
	}
	if c.MinSatellites < 0 || c.MaxSatellites < c.MinSatellites {
		return fmt.Errorf("%w: [%d, %d]", ErrSatelliteRange, c.MinSatellites, c.MaxSatellites)
	}
	if c.MinMass < 1 || c.MaxMass < c.MinMass {
		return fmt.Errorf("%w: [%g, %g]", ErrMassRange, c.MinMass, c.MaxMass)
	}
	if c.MaxOrbitRadius <= minPlacementDist {
		return fmt.Errorf("%w: got %g", ErrOrbitRadius, c.MaxOrbitRadius)
	}
	return nil
}

// Generator produces randomized scenarios from an explicit random source, so
// a run is reproducible from its seed.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

func NewGenerator(cfg GeneratorConfig, rng *rand.Rand) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() GeneratorConfig { return g.cfg }

// Generate builds a fresh scenario: N satellites on perturbed circular orbits
// plus the sun, appended last. The result fully replaces any previous body
// collection.
func (g *Generator) Generate() []*Body {
	cfg := g.cfg

	sun := NewBody(vec.Vec2{}, vec.Vec2{}, cfg.SunMass, SunColor, cfg.TrailLength)

	n := cfg.MinSatellites
	if span := cfg.MaxSatellites - cfg.MinSatellites; span > 0 {
		n += g.rng.Intn(span + 1)
	}

	bodies := make([]*Body, 0, n+1)
	for i := 0; i < n; i++ {
		pos := g.samplePosition()
		mass := cfg.MinMass + g.rng.Float64()*(cfg.MaxMass-cfg.MinMass)

		sat := NewBody(pos, vec.Vec2{}, mass, g.sampleColor(), cfg.TrailLength)
		vel := CircularVelocity(sat, sun, cfg.G, cfg.MaxSpeed)
		// nudge one axis off the circular solution so orbits come out
		// visibly elliptical
		vel.X += (g.rng.Float64()*2 - 1) * cfg.Ellipticity
		sat.Vel = vel

		bodies = append(bodies, sat)
	}

	return append(bodies, sun)
}

func (g *Generator) samplePosition() vec.Vec2 {
	r := g.cfg.MaxOrbitRadius
	for {
		p := vec.New(
			(g.rng.Float64()*2-1)*r,
			(g.rng.Float64()*2-1)*r,
		)
		if p.Length() >= minPlacementDist {
			return p
		}
	}
}

func (g *Generator) sampleColor() RGBA {
	floor := int(g.cfg.ColorFloor)
	span := 256 - floor
	return RGBA{
		R: uint8(floor + g.rng.Intn(span)),
		G: uint8(floor + g.rng.Intn(span)),
		B: uint8(floor + g.rng.Intn(span)),
		A: 255,
	}
}

// ClassicScenario is the hand-placed system the simulator shipped with before
// random generation: a lighter sun, an eccentric "earth", and two satellites
// started on circular orbits.
func ClassicScenario(g float64, trailLen int) []*Body {
	sun := NewBody(vec.Vec2{}, vec.Vec2{}, 200_000, SunColor, trailLen)

	earth := NewBody(vec.New(500, 0), vec.New(0.1, 0.3), 999,
		RGBA{R: 129, G: 171, B: 84, A: 255}, trailLen)

	mun := NewBody(vec.New(450, -450), vec.Vec2{}, 35,
		RGBA{R: 75, G: 109, B: 119, A: 255}, trailLen)
	mun.Vel = CircularVelocity(mun, sun, g, 0)

	mercury := NewBody(vec.New(0, 300), vec.Vec2{}, 200,
		RGBA{R: 201, G: 55, B: 55, A: 255}, trailLen)
	mercury.Vel = CircularVelocity(mercury, sun, g, 0)

	return []*Body{sun, earth, mun, mercury}
}
