// Package config holds run configuration for the mcquad CLI: which
// integrand to run, with what sampling parameters, on which backend.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFn     = "linsum"
	DefaultDim    = 1
	DefaultN      = 1000
	DefaultTrials = 1
)

type Config struct {
	Fn      string      `yaml:"fn"`
	Dim     int         `yaml:"dim"`
	N       int         `yaml:"n"`
	Seed    *uint64     `yaml:"seed,omitempty"`
	Backend string      `yaml:"backend,omitempty"`
	DType   string      `yaml:"dtype,omitempty"`
	Domain  [][]float64 `yaml:"domain,omitempty"`
	Trials  int         `yaml:"trials,omitempty"`
	JIT     bool        `yaml:"jit,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Fn:     DefaultFn,
		Dim:    DefaultDim,
		N:      DefaultN,
		Trials: DefaultTrials,
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

func (c *Config) Validate() error {
	if c.Dim < 1 {
		return fmt.Errorf("dim must be 1 or larger, got %d", c.Dim)
	}
	if c.N < 1 {
		return fmt.Errorf("n must be positive, got %d", c.N)
	}
	if c.Trials < 1 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	return nil
}
