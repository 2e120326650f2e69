package config

import "sort"

func withRig(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	"trainer": DefaultConfig(),
	"road": withRig(func(c *Config) {
		c.Rig.WheelDiameterM = 2096e-3
		c.Rig.MaxSpeedMps = 20.0
	}),
	"mtb": withRig(func(c *Config) {
		c.Rig.WheelDiameterM = 2326e-3
		c.Rig.MaxSpeedMps = 12.0
	}),
	"sprint": withRig(func(c *Config) {
		c.Sweep.StartMicros = 1.5e4
		c.Sweep.StopMicros = 1e5
		c.Stream.ProportionalCutoff = 2000
		c.Stream.DerivativeCutoff = 400
	}),
}

// GetPreset returns a copy of the named preset or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
