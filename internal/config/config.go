package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/protolab/internal/diffusion"
)

const (
	DefaultN            = 100
	DefaultBoxSize      = 1.0
	DefaultAlpha        = 3.35e-4
	DefaultTEnd         = 600.0
	DefaultEnergyFactor = 8.617333262e-5 // Boltzmann constant, eV/K
	DefaultAmplitude    = 1e3
	DefaultBandWidth    = 20
	DefaultSeed         = 2025
)

// Initial condition kinds understood by the experiment registry.
const (
	KindImpulse  = "impulse"
	KindBand     = "band"
	KindGaussian = "gaussian"
	KindUniform  = "uniform"
)

var kinds = map[string]bool{
	KindImpulse:  true,
	KindBand:     true,
	KindGaussian: true,
	KindUniform:  true,
}

type Config struct {
	Name         string        `yaml:"name" json:"name"`
	Dims         int           `yaml:"dims" json:"dims"`
	N            int           `yaml:"n" json:"n"`
	BoxSize      float64       `yaml:"box_size" json:"box_size"`
	Alpha        float64       `yaml:"alpha" json:"alpha"`
	Safety       float64       `yaml:"safety" json:"safety"`
	TStart       float64       `yaml:"t_start" json:"t_start"`
	TEnd         float64       `yaml:"t_end" json:"t_end"`
	EnergyFactor float64       `yaml:"energy_factor" json:"energy_factor"`
	FrameEvery   int           `yaml:"frame_every" json:"frame_every"`
	Initial      InitialConfig `yaml:"initial" json:"initial"`
}

type InitialConfig struct {
	Kind       string  `yaml:"kind" json:"kind"`
	Amplitude  float64 `yaml:"amplitude" json:"amplitude"`
	Width      int     `yaml:"width" json:"width"`
	Background float64 `yaml:"background" json:"background"`
	Mean       float64 `yaml:"mean" json:"mean"`
	StdDev     float64 `yaml:"stddev" json:"stddev"`
	Seed       int64   `yaml:"seed" json:"seed"`
}

// DefaultConfig is the 1D rod: a hot band across the middle of a ring.
func DefaultConfig() *Config {
	return &Config{
		Name:         "rod",
		Dims:         1,
		N:            DefaultN,
		BoxSize:      DefaultBoxSize,
		Alpha:        DefaultAlpha,
		TEnd:         DefaultTEnd,
		EnergyFactor: DefaultEnergyFactor,
		FrameEvery:   1,
		Initial: InitialConfig{
			Kind:      KindBand,
			Amplitude: DefaultAmplitude,
			Width:     DefaultBandWidth,
			Seed:      DefaultSeed,
		},
	}
}

// Load reads a run configuration. Files ending in .ini are parsed as INI
// with [run] and [initial] sections; anything else is YAML.
func Load(path string) (*Config, error) {
	if isINI(path) {
		file, err := ini.Load(path)
		if err != nil {
			return nil, err
		}
		return fromINI(file), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isINI(path) {
		return toINI(cfg).SaveTo(path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isINI(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ini")
}

func fromINI(file *ini.File) *Config {
	d := DefaultConfig()
	run := file.Section("run")
	initial := file.Section("initial")
	return &Config{
		Name:         run.Key("name").MustString(d.Name),
		Dims:         run.Key("dims").MustInt(d.Dims),
		N:            run.Key("n").MustInt(d.N),
		BoxSize:      run.Key("box_size").MustFloat64(d.BoxSize),
		Alpha:        run.Key("alpha").MustFloat64(d.Alpha),
		Safety:       run.Key("safety").MustFloat64(d.Safety),
		TStart:       run.Key("t_start").MustFloat64(d.TStart),
		TEnd:         run.Key("t_end").MustFloat64(d.TEnd),
		EnergyFactor: run.Key("energy_factor").MustFloat64(d.EnergyFactor),
		FrameEvery:   run.Key("frame_every").MustInt(d.FrameEvery),
		Initial: InitialConfig{
			Kind:       initial.Key("kind").MustString(d.Initial.Kind),
			Amplitude:  initial.Key("amplitude").MustFloat64(d.Initial.Amplitude),
			Width:      initial.Key("width").MustInt(d.Initial.Width),
			Background: initial.Key("background").MustFloat64(d.Initial.Background),
			Mean:       initial.Key("mean").MustFloat64(d.Initial.Mean),
			StdDev:     initial.Key("stddev").MustFloat64(d.Initial.StdDev),
			Seed:       initial.Key("seed").MustInt64(d.Initial.Seed),
		},
	}
}

func toINI(cfg *Config) *ini.File {
	file := ini.Empty()
	run := file.Section("run")
	run.Key("name").SetValue(cfg.Name)
	run.Key("dims").SetValue(fmt.Sprint(cfg.Dims))
	run.Key("n").SetValue(fmt.Sprint(cfg.N))
	run.Key("box_size").SetValue(fmt.Sprint(cfg.BoxSize))
	run.Key("alpha").SetValue(fmt.Sprint(cfg.Alpha))
	run.Key("safety").SetValue(fmt.Sprint(cfg.Safety))
	run.Key("t_start").SetValue(fmt.Sprint(cfg.TStart))
	run.Key("t_end").SetValue(fmt.Sprint(cfg.TEnd))
	run.Key("energy_factor").SetValue(fmt.Sprint(cfg.EnergyFactor))
	run.Key("frame_every").SetValue(fmt.Sprint(cfg.FrameEvery))

	initial := file.Section("initial")
	initial.Key("kind").SetValue(cfg.Initial.Kind)
	initial.Key("amplitude").SetValue(fmt.Sprint(cfg.Initial.Amplitude))
	initial.Key("width").SetValue(fmt.Sprint(cfg.Initial.Width))
	initial.Key("background").SetValue(fmt.Sprint(cfg.Initial.Background))
	initial.Key("mean").SetValue(fmt.Sprint(cfg.Initial.Mean))
	initial.Key("stddev").SetValue(fmt.Sprint(cfg.Initial.StdDev))
	initial.Key("seed").SetValue(fmt.Sprint(cfg.Initial.Seed))
	return file
}

// Validate checks the settings the diffusion core does not see. Spacing,
// diffusivity and time range are left to the core's own checks.
func (c *Config) Validate() error {
	if c.Dims != 1 && c.Dims != 2 {
		return fmt.Errorf("config: dims must be 1 or 2, got %d", c.Dims)
	}
	if c.N < 1 {
		return fmt.Errorf("config: n must be at least 1, got %d", c.N)
	}
	if c.FrameEvery < 1 {
		return fmt.Errorf("config: frame_every must be at least 1, got %d", c.FrameEvery)
	}
	if !(c.Safety >= 0) {
		return &diffusion.ConfigurationError{Param: "safety", Value: c.Safety, Reason: "must be positive, or 0 for the default"}
	}
	if !kinds[c.Initial.Kind] {
		return fmt.Errorf("config: unknown initial kind %q", c.Initial.Kind)
	}
	return nil
}

// Dx is the grid spacing box_size / n.
func (c *Config) Dx() float64 {
	if c.N <= 0 {
		return 0
	}
	return c.BoxSize / float64(c.N)
}

// SafetyDivisor returns the configured k, or 2 in 1D and 4 in 2D when unset.
// Any other non-positive value is passed through for the scheduler to reject.
func (c *Config) SafetyDivisor() float64 {
	if c.Safety != 0 {
		return c.Safety
	}
	if c.Dims == 2 {
		return 4
	}
	return 2
}

// Clone returns an independent copy; presets are shared values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
