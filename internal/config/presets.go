package config

import "sort"

// Presets maps an engine name to named configuration tweaks applied on
// top of DefaultConfig.
var Presets = map[string]map[string]func(*Config){
	"particles": {
		"hero": func(c *Config) {},
		"dense": func(c *Config) {
			c.Particles.Density = 6000
			c.Particles.LinkDistance = 80
		},
		"calm": func(c *Config) {
			c.Particles.MaxSpeed = 0.1
			c.Particles.Opacity = 0.4
		},
		"mono": func(c *Config) {
			c.Particles.Palette = []string{"#e5e7eb", "#9ca3af"}
		},
	},
	"rain": {
		"cta": func(c *Config) {},
		"storm": func(c *Config) {
			c.Rain.Fade = 0.1
			c.Rain.ResetThreshold = 0.9
		},
		"drizzle": func(c *Config) {
			c.Rain.FontSize = 28
			c.Rain.Fade = 0.03
		},
		"amber": func(c *Config) {
			c.Rain.Color = "#ffb000"
		},
	},
}

func GetPreset(engine, preset string) *Config {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	apply, ok := enginePresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset applies a named preset onto an existing config.
func ApplyPreset(cfg *Config, engine, preset string) bool {
	apply, ok := Presets[engine][preset]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets(engine string) []string {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(enginePresets))
	for name := range enginePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
