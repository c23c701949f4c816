package config

// Presets are named scenario configurations. Each starts from Default and
// overrides what the preset is about.
var Presets = map[string]func() *Config{
	// the hand-placed system from the first version of the simulator
	"classic": func() *Config {
		c := Default()
		c.Scenario = "classic"
		c.SunMass = 200_000
		c.TrailLength = 15000
		c.CullDistance = 0
		return c
	},

	// many light satellites, short trails
	"swarm": func() *Config {
		c := Default()
		c.MinSatellites = 10
		c.MaxSatellites = 12
		c.MinMass = 50
		c.MaxMass = 300
		c.TrailLength = 1000
		return c
	},

	// a few heavy bodies on wide eccentric orbits
	"sparse": func() *Config {
		c := Default()
		c.MinSatellites = 4
		c.MaxSatellites = 6
		c.MinMass = 800
		c.MaxMass = 2000
		c.Ellipticity = 0.8
		c.MaxOrbitRadius = 800
		return c
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
