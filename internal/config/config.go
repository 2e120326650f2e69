package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCylinderDiameterKm       = 54.2e-6
	DefaultWheelDiameterM           = 2100e-3
	DefaultSensorCylinderDiameterM  = 76.2e-3
	DefaultMaxSpeedMps              = 15.65
	DefaultResistanceOhms           = 50e3
	DefaultCapacitanceFarads        = 5e-9
	DefaultSweepStartMicros         = 2.5e4
	DefaultSweepStopMicros          = 1e6
	DefaultSweepSamples             = 1000
	DefaultStreamInterval           = time.Second
	DefaultStreamProportionalCutoff = 1000.0
	DefaultStreamDerivativeCutoff   = 100.0
)

type Config struct {
	Rig    RigConfig    `yaml:"rig"`
	Filter FilterConfig `yaml:"filter"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Stream StreamConfig `yaml:"stream"`
}

type RigConfig struct {
	CylinderDiameterKm      float64 `yaml:"cylinder_diameter_km"`
	WheelDiameterM          float64 `yaml:"wheel_diameter_m"`
	SensorCylinderDiameterM float64 `yaml:"sensor_cylinder_diameter_m"`
	MaxSpeedMps             float64 `yaml:"max_speed_mps"`
}

// FilterConfig holds the RC low-pass in front of the IR sensor.
type FilterConfig struct {
	ResistanceOhms    float64 `yaml:"resistance_ohms"`
	CapacitanceFarads float64 `yaml:"capacitance_farads"`
}

type SweepConfig struct {
	StartMicros float64 `yaml:"start_micros"`
	StopMicros  float64 `yaml:"stop_micros"`
	Samples     int     `yaml:"samples"`
}

type StreamConfig struct {
	Interval           time.Duration `yaml:"interval"`
	ProportionalCutoff float64       `yaml:"proportional_cutoff"`
	DerivativeCutoff   float64       `yaml:"derivative_cutoff"`
}

func DefaultConfig() *Config {
	return &Config{
		Rig: RigConfig{
			CylinderDiameterKm:      DefaultCylinderDiameterKm,
			WheelDiameterM:          DefaultWheelDiameterM,
			SensorCylinderDiameterM: DefaultSensorCylinderDiameterM,
			MaxSpeedMps:             DefaultMaxSpeedMps,
		},
		Filter: FilterConfig{
			ResistanceOhms:    DefaultResistanceOhms,
			CapacitanceFarads: DefaultCapacitanceFarads,
		},
		Sweep: SweepConfig{
			StartMicros: DefaultSweepStartMicros,
			StopMicros:  DefaultSweepStopMicros,
			Samples:     DefaultSweepSamples,
		},
		Stream: StreamConfig{
			Interval:           DefaultStreamInterval,
			ProportionalCutoff: DefaultStreamProportionalCutoff,
			DerivativeCutoff:   DefaultStreamDerivativeCutoff,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := *base
	cfg := &c
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate checks the structural settings. Physical quantities are left
// to the formulas, which reject them with a domain error when used.
func (c *Config) Validate() error {
	if c.Sweep.Samples < 2 {
		return fmt.Errorf("sweep.samples must be at least 2, got %d", c.Sweep.Samples)
	}
	if c.Stream.Interval <= 0 {
		return fmt.Errorf("stream.interval must be positive, got %v", c.Stream.Interval)
	}
	if c.Stream.ProportionalCutoff <= 0 || c.Stream.DerivativeCutoff <= 0 {
		return fmt.Errorf("stream cutoffs must be positive")
	}
	return nil
}
