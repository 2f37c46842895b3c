package config

import "sort"

var Presets = map[string]func() *Config{
	"rain": func() *Config {
		return DefaultConfig()
	},
	"lattice": func() *Config {
		c := DefaultConfig()
		c.Particles.Count = 400
		c.Particles.Radius = 6
		c.Spawn.Layout = "grid"
		c.Spawn.GridWidth = 14
		return c
	},
	"zero_g": func() *Config {
		c := DefaultConfig()
		c.Physics.Gravity = VecConfig{}
		c.Particles.Dampening = 1.0
		c.Run.Scenario = "stir"
		return c
	},
	"shaker": func() *Config {
		c := DefaultConfig()
		c.Particles.Count = 250
		c.Particles.Radius = 8
		c.Particles.Dampening = 0.9
		c.Run.Duration = 20
		c.Run.Scenario = "shaker"
		return c
	},
	"inflate": func() *Config {
		c := DefaultConfig()
		c.Particles.Count = 150
		c.Particles.Radius = 4
		c.Run.Scenario = "inflate"
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
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
	sort.Strings(names)
	return names
}
