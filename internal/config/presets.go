package config

import "sort"

var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"sparse": func(c *Config) {
		c.Balls.Count = 3
		c.Balls.MaxSpeed = 2.0
	},
	"crowded": func(c *Config) {
		c.Balls.Count = 60
		c.Balls.Radius = 8
	},
	"heavy": func(c *Config) {
		c.Balls.Count = 12
		c.Balls.Radius = 20
		c.Balls.Mass = 5
		c.Balls.MaxSpeed = 0.5
	},
	"billiards": func(c *Config) {
		c.Table.Width = 254
		c.Table.Height = 127
		c.Balls.Count = 16
		c.Balls.Radius = 2.85
		c.Balls.MaxSpeed = 1.5
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
