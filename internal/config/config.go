package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fibersim/internal/dynamo"
	"github.com/san-kum/fibersim/internal/experiment"
)

const (
	DefaultSamples = 10_000
	DefaultSteps   = 60
	DefaultSeed    = 42
	DefaultOutput  = "out"
)

// DefaultKValues is the K set of the theorem check.
var DefaultKValues = []int64{2, 3, 4, 5, 6, 8, 16}

type Config struct {
	Prime     int64   `yaml:"prime" env:"FIBERSIM_PRIME"`
	KValues   []int64 `yaml:"k_values" env:"FIBERSIM_K_VALUES" envSeparator:","`
	Samples   int     `yaml:"samples" env:"FIBERSIM_SAMPLES"`
	Steps     int     `yaml:"steps" env:"FIBERSIM_STEPS"`
	Seed      int64   `yaml:"seed" env:"FIBERSIM_SEED"`
	Workers   int     `yaml:"workers" env:"FIBERSIM_WORKERS"`
	OutputDir string  `yaml:"output_dir" env:"FIBERSIM_OUTPUT_DIR"`
}

func DefaultConfig() *Config {
	return &Config{
		Prime:     dynamo.DefaultPrime,
		KValues:   append([]int64(nil), DefaultKValues...),
		Samples:   DefaultSamples,
		Steps:     DefaultSteps,
		Seed:      DefaultSeed,
		OutputDir: DefaultOutput,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// ApplyEnv overrides fields from FIBERSIM_* variables. Unset variables
// leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks every K against the prime before anything runs.
func (c *Config) Validate() error {
	if len(c.KValues) == 0 {
		return fmt.Errorf("config: no K values")
	}
	if c.Samples < 1 {
		return fmt.Errorf("config: samples must be positive, got %d", c.Samples)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must not be negative, got %d", c.Steps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	for _, k := range c.KValues {
		if _, err := dynamo.NewSystem(k, c.Prime); err != nil {
			return err
		}
	}
	return nil
}

// Params converts the config to protocol input.
func (c *Config) Params() experiment.Params {
	return experiment.Params{
		Prime:   c.Prime,
		KValues: append([]int64(nil), c.KValues...),
		Samples: c.Samples,
		Steps:   c.Steps,
		Seed:    c.Seed,
		Workers: c.Workers,
	}
}

// Experiment returns the single-K experiment config for k.
func (c *Config) Experiment(k int64) experiment.Config {
	return experiment.Config{
		K:       k,
		Prime:   c.Prime,
		Samples: c.Samples,
		Steps:   c.Steps,
		Seed:    c.Seed,
		Workers: c.Workers,
	}
}
