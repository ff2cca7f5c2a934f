package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GalaxyConfig drives the spiral galaxy generator. Sizes are in kpc.
type GalaxyConfig struct {
	Size       float64 `yaml:"size"`
	B          float64 `yaml:"b"`
	Arms       int     `yaml:"arms"`
	RotSpacing float64 `yaml:"rot_spacing"` // 0 means 2/arms
	TrailDelay float64 `yaml:"trail_delay"`
	Fuzz       float64 `yaml:"fuzz"`
	CoreStars  int     `yaml:"core_stars"`
	ArmStars   int     `yaml:"arm_stars"`
	HazeStars  int     `yaml:"haze_stars"`
	InnerHazeR float64 `yaml:"inner_haze_r"`
	InnerHazeZ float64 `yaml:"inner_haze_z"`
	OuterHazeR float64 `yaml:"outer_haze_r"`
	OuterHazeZ float64 `yaml:"outer_haze_z"`
	Seed       uint64  `yaml:"seed"`
}

func DefaultGalaxyConfig() *GalaxyConfig {
	return &GalaxyConfig{
		Size:       17.5,
		B:          -0.3,
		Arms:       4,
		TrailDelay: 0.1,
		Fuzz:       1.5,
		CoreStars:  3000,
		ArmStars:   1000,
		HazeStars:  2000,
		InnerHazeR: 2,
		InnerHazeZ: 0.5,
		OuterHazeR: 1,
		OuterHazeZ: 0.3,
		Seed:       DefaultSeed,
	}
}

func LoadGalaxy(path string) (*GalaxyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultGalaxyConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
