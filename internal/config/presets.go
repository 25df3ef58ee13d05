package config

import "sort"

// referenceBodies is the three-body start: masses 10, 20, 30 placed at
// random within 100-unit boxes.
func referenceBodies() []BodyConfig {
	return []BodyConfig{
		{Mass: 10, Position: [2]float64{200, 300}, Velocity: [2]float64{0.3, -0.2}, Spread: [2]float64{100, 100}},
		{Mass: 20, Position: [2]float64{400, 300}, Velocity: [2]float64{-0.3, 0.2}, Spread: [2]float64{100, 100}},
		{Mass: 30, Position: [2]float64{300, 500}, Velocity: [2]float64{0.1, -0.4}, Spread: [2]float64{100, 100}},
	}
}

// Presets overlay body layouts and step sizes on the defaults.
var Presets = map[string]func(*Config){
	"reference": func(c *Config) {
		c.Bodies = referenceBodies()
	},
	"figure8": func(c *Config) {
		// Chenciner-Montgomery orbit with lengths scaled by 100 and masses
		// by 1000; velocities scale by sqrt(M/L).
		c.Dt = 0.05
		c.Bodies = []BodyConfig{
			{Mass: 1000, Position: [2]float64{97.000436, -24.308753}, Velocity: [2]float64{1.474264, 1.367261}},
			{Mass: 1000, Position: [2]float64{-97.000436, 24.308753}, Velocity: [2]float64{1.474264, 1.367261}},
			{Mass: 1000, Position: [2]float64{0, 0}, Velocity: [2]float64{-2.948527, -2.734521}},
		}
	},
	"binary": func(c *Config) {
		c.Bodies = []BodyConfig{
			{Mass: 10, Position: [2]float64{0, 0}},
			{Mass: 20, Position: [2]float64{10, 0}},
		}
	},
	"lagrange": func(c *Config) {
		c.Dt = 0.1
		c.Bodies = []BodyConfig{
			{Mass: 100, Position: [2]float64{0, 100}, Velocity: [2]float64{-0.7598, 0}},
			{Mass: 100, Position: [2]float64{-86.6025, -50}, Velocity: [2]float64{0.3799, -0.6580}},
			{Mass: 100, Position: [2]float64{86.6025, -50}, Velocity: [2]float64{0.3799, 0.6580}},
		}
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil for an unknown name.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Preset = name
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
