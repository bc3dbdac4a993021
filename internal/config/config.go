package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBoxL          = 5.0    // nm
	DefaultTemp          = 293.15 // K
	DefaultIonic         = 0.15   // M
	DefaultPH            = 7.0
	DefaultTimestepFs    = 10.0
	DefaultSteps         = 10000000 // 100 ns at 10 fs
	DefaultEquilSteps    = 100000   // 1 ns
	DefaultMinimizeSteps = 1000
	DefaultSaveEvery     = 1000 // every 10 ps
	DefaultPlatform      = "CPU"
	DefaultCutoff        = 0.6 // nm, contact analysis
	DefaultEngine        = "calvados"
)

// ErrInvalidConfig marks a configuration payload that fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the payload consumed by one engine invocation. The field set
// mirrors the engine's own config file; the repo never interprets the
// physics, it only generates and validates these values.
type Config struct {
	Sysname       string     `yaml:"sysname"`
	Box           [3]float64 `yaml:"box"`  // nm
	Temp          float64    `yaml:"temp"` // K
	Ionic         float64    `yaml:"ionic"` // M
	PH            float64    `yaml:"pH"`
	TimestepFs    float64    `yaml:"timestep_fs"`
	Steps         int        `yaml:"steps"`
	Wfreq         int        `yaml:"wfreq"`
	Minimize      bool       `yaml:"minimize,omitempty"`
	MinimizeSteps int        `yaml:"minimize_steps,omitempty"`
	Platform      string     `yaml:"platform"`
	Restart       string     `yaml:"restart,omitempty"`
	Frestart      string     `yaml:"frestart,omitempty"`
	Verbose       bool       `yaml:"verbose"`
	Seed          int64      `yaml:"seed,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Box:        [3]float64{DefaultBoxL, DefaultBoxL, DefaultBoxL},
		Temp:       DefaultTemp,
		Ionic:      DefaultIonic,
		PH:         DefaultPH,
		TimestepFs: DefaultTimestepFs,
		Steps:      DefaultSteps,
		Wfreq:      DefaultSaveEvery,
		Platform:   DefaultPlatform,
		Verbose:    true,
	}
}

func Load(path string) (*Config, error) {
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
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the thermodynamic and runtime knobs against their
// physical ranges before anything is handed to the engine.
func (c *Config) Validate() error {
	for i, l := range c.Box {
		if l <= 0 {
			return fmt.Errorf("%w: box dimension %d is %g, must be positive", ErrInvalidConfig, i, l)
		}
	}
	if c.Temp <= 0 {
		return fmt.Errorf("%w: temperature %g K", ErrInvalidConfig, c.Temp)
	}
	if c.Ionic < 0 {
		return fmt.Errorf("%w: ionic strength %g M", ErrInvalidConfig, c.Ionic)
	}
	if c.TimestepFs <= 0 {
		return fmt.Errorf("%w: timestep %g fs", ErrInvalidConfig, c.TimestepFs)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps %d", ErrInvalidConfig, c.Steps)
	}
	if c.Wfreq <= 0 || c.Wfreq > c.Steps {
		return fmt.Errorf("%w: wfreq %d not in (0, %d]", ErrInvalidConfig, c.Wfreq, c.Steps)
	}
	if c.Minimize && c.MinimizeSteps <= 0 {
		return fmt.Errorf("%w: minimize_steps %d", ErrInvalidConfig, c.MinimizeSteps)
	}
	switch c.Platform {
	case "CPU", "CUDA", "OpenCL":
	default:
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidConfig, c.Platform)
	}
	return nil
}

// SimulationTimeNs returns the simulated duration implied by steps and timestep.
func (c *Config) SimulationTimeNs() float64 {
	return float64(c.Steps) * c.TimestepFs * 1e-6
}

// FrameCount returns the number of trajectory frames the engine will write.
func (c *Config) FrameCount() int {
	if c.Wfreq <= 0 {
		return 0
	}
	return c.Steps / c.Wfreq
}
