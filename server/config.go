// File: server/config.go
// Author: momentics <momentics@gmail.com>
//
// YAML configuration loading and validation.

package server

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML decoding; durations travel as
// strings in time.ParseDuration form.
type fileConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	Backend        string `yaml:"backend"`
	PollInterval   string `yaml:"poll_interval"`
	MaxConns       *int   `yaml:"max_conns"`
	AcceptBurst    *int   `yaml:"accept_burst"`
	DrainPipelined *bool  `yaml:"drain_pipelined"`
	MetricsAddr    string `yaml:"metrics_addr"`
}

// LoadConfig reads a YAML config file, overlaying it onto DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}

	cfg := DefaultConfig()
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.Backend != "" {
		cfg.Backend = fc.Backend
	}
	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil {
			return nil, errors.Wrap(err, "parse poll_interval")
		}
		cfg.PollInterval = d
	}
	if fc.MaxConns != nil {
		cfg.MaxConns = *fc.MaxConns
	}
	if fc.AcceptBurst != nil {
		cfg.AcceptBurst = *fc.AcceptBurst
	}
	if fc.DrainPipelined != nil {
		cfg.DrainPipelined = *fc.DrainPipelined
	}
	if fc.MetricsAddr != "" {
		cfg.MetricsAddr = fc.MetricsAddr
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	switch c.Backend {
	case "", "poll", "epoll":
	default:
		return errors.Errorf("unknown backend %q", c.Backend)
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.MaxConns <= 0 {
		return errors.New("max_conns must be positive")
	}
	if c.AcceptBurst < 0 {
		return errors.New("accept_burst must not be negative")
	}
	return nil
}
