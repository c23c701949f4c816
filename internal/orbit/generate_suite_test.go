package orbit_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tandria/orbitlab/internal/orbit"
)

func TestScenarioSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scenario Generation Suite")
}

var _ = Describe("Generator", func() {
	var (
		cfg orbit.GeneratorConfig
		gen *orbit.Generator
	)

	BeforeEach(func() {
		cfg = orbit.DefaultGeneratorConfig()
		var err error
		gen, err = orbit.NewGenerator(cfg, rand.New(rand.NewSource(GinkgoRandomSeed())))
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns between MinSatellites+1 and MaxSatellites+1 bodies", func() {
		for i := 0; i < 100; i++ {
			bodies := gen.Generate()
			Expect(len(bodies)).To(And(
				BeNumerically(">=", cfg.MinSatellites+1),
				BeNumerically("<=", cfg.MaxSatellites+1),
			))
		}
	})

	It("appends the sun last, at rest at the origin", func() {
		bodies := gen.Generate()
		sun := bodies[len(bodies)-1]
		Expect(sun.Mass).To(Equal(cfg.SunMass))
		Expect(sun.Pos.IsZero()).To(BeTrue())
		Expect(sun.Vel.IsZero()).To(BeTrue())
		Expect(sun.Color).To(Equal(orbit.SunColor))
	})

	It("keeps satellite masses inside the configured range", func() {
		for i := 0; i < 50; i++ {
			bodies := gen.Generate()
			for _, b := range bodies[:len(bodies)-1] {
				Expect(b.Mass).To(And(
					BeNumerically(">=", cfg.MinMass),
					BeNumerically("<=", cfg.MaxMass),
				))
			}
		}
	})

	It("places satellites inside the sampling box", func() {
		limit := cfg.MaxOrbitRadius * math.Sqrt2
		for i := 0; i < 50; i++ {
			bodies := gen.Generate()
			for _, b := range bodies[:len(bodies)-1] {
				Expect(math.Abs(b.Pos.X)).To(BeNumerically("<=", cfg.MaxOrbitRadius))
				Expect(math.Abs(b.Pos.Y)).To(BeNumerically("<=", cfg.MaxOrbitRadius))
				Expect(b.Pos.Length()).To(BeNumerically("<=", limit))
			}
		}
	})

	It("keeps satellite colors above the brightness floor, fully opaque", func() {
		bodies := gen.Generate()
		for _, b := range bodies[:len(bodies)-1] {
			Expect(b.Color.R).To(BeNumerically(">=", cfg.ColorFloor))
			Expect(b.Color.G).To(BeNumerically(">=", cfg.ColorFloor))
			Expect(b.Color.B).To(BeNumerically(">=", cfg.ColorFloor))
			Expect(b.Color.A).To(Equal(uint8(255)))
		}
	})

	It("gives every satellite a near-circular speed within the perturbation bound", func() {
		for i := 0; i < 20; i++ {
			bodies := gen.Generate()
			sun := bodies[len(bodies)-1]
			for _, b := range bodies[:len(bodies)-1] {
				circular := orbit.CircularVelocity(b, sun, cfg.G, cfg.MaxSpeed)
				// only one axis is perturbed, by at most Ellipticity
				Expect(math.Abs(b.Vel.X - circular.X)).To(BeNumerically("<=", cfg.Ellipticity+1e-12))
				Expect(b.Vel.Y).To(BeNumerically("~", circular.Y, 1e-12))
			}
		}
	})
})
