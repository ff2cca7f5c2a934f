package config

import "sort"

var Presets = map[string]*Config{
	"rod": {
		Name: "rod", Dims: 1, N: 100, BoxSize: 1, Alpha: 3.35e-4, Safety: 2,
		TEnd: 600, EnergyFactor: DefaultEnergyFactor, FrameEvery: 1,
		Initial: InitialConfig{Kind: KindBand, Amplitude: 1e3, Width: 20},
	},
	"plate": {
		Name: "plate", Dims: 2, N: 64, BoxSize: 1, Alpha: 3.35e-4, Safety: 4,
		TEnd: 60, EnergyFactor: DefaultEnergyFactor, FrameEvery: 1,
		Initial: InitialConfig{Kind: KindGaussian, Mean: 100, StdDev: 50, Seed: DefaultSeed},
	},
	"impulse": {
		Name: "impulse", Dims: 1, N: 20, BoxSize: 20, Alpha: 0.5, Safety: 2,
		TEnd: 10, EnergyFactor: 1, FrameEvery: 1,
		Initial: InitialConfig{Kind: KindImpulse, Amplitude: 100},
	},
	"point": {
		Name: "point", Dims: 2, N: 64, BoxSize: 64, Alpha: 0.5, Safety: 4,
		TEnd: 50, EnergyFactor: 1, FrameEvery: 1,
		Initial: InitialConfig{Kind: KindImpulse, Amplitude: 100},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
