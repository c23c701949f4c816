package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tandria/orbitlab/internal/orbit"
)

const (
	// DefaultG is the gravitational constant after display scaling:
	// 6.674e-11 scaled up by 1e7 so orbits are visible at screen scale.
	DefaultG = 6.674e-4

	DefaultTrailLength    = 2000
	DefaultMaxOrbitRadius = 600.0
	DefaultEllipticity    = 0.3
	DefaultMaxSpeed       = 4.0
	DefaultCullDistance   = 5000.0
	DefaultSunMass        = 1_500_000.0
	DefaultStars          = 500
	DefaultFPS            = 60
)

type Config struct {
	Scenario string `yaml:"scenario"` // "random" or "classic"
	Seed     int64  `yaml:"seed"`     // 0 = derive from wall clock

	G            float64 `yaml:"g"`
	TrailLength  int     `yaml:"trail_length"`
	CullDistance float64 `yaml:"cull_distance"`

	SunMass        float64 `yaml:"sun_mass"`
	MinSatellites  int     `yaml:"min_satellites"`
	MaxSatellites  int     `yaml:"max_satellites"`
	MinMass        float64 `yaml:"min_mass"`
	MaxMass        float64 `yaml:"max_mass"`
	MaxOrbitRadius float64 `yaml:"max_orbit_radius"`
	Ellipticity    float64 `yaml:"ellipticity"`
	MaxSpeed       float64 `yaml:"max_speed"`

	Stars int `yaml:"stars"`
	FPS   int `yaml:"fps"`
}

func Default() *Config {
	gc := orbit.DefaultGeneratorConfig()
	return &Config{
		Scenario:       "random",
		G:              DefaultG,
		TrailLength:    DefaultTrailLength,
		CullDistance:   DefaultCullDistance,
		SunMass:        gc.SunMass,
		MinSatellites:  gc.MinSatellites,
		MaxSatellites:  gc.MaxSatellites,
		MinMass:        gc.MinMass,
		MaxMass:        gc.MaxMass,
		MaxOrbitRadius: gc.MaxOrbitRadius,
		Ellipticity:    gc.Ellipticity,
		MaxSpeed:       gc.MaxSpeed,
		Stars:          DefaultStars,
		FPS:            DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Scenario != "random" && c.Scenario != "classic" {
		return fmt.Errorf("unknown scenario: %s", c.Scenario)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.TrailLength < 0 {
		return fmt.Errorf("trail length must be non-negative, got %d", c.TrailLength)
	}
	// the rest is validated by the generator at construction time
	return nil
}

// GeneratorConfig maps the file-level settings onto the orbit package.
func (c *Config) GeneratorConfig() orbit.GeneratorConfig {
	return orbit.GeneratorConfig{
		G:              c.G,
		SunMass:        c.SunMass,
		MinSatellites:  c.MinSatellites,
		MaxSatellites:  c.MaxSatellites,
		MinMass:        c.MinMass,
		MaxMass:        c.MaxMass,
		MaxOrbitRadius: c.MaxOrbitRadius,
		Ellipticity:    c.Ellipticity,
		MaxSpeed:       c.MaxSpeed,
		TrailLength:    c.TrailLength,
		ColorFloor:     64,
	}
}
