// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config loads the configuration of the berry command.
//
// Values are taken, in increasing order of precedence, from built-in
// defaults, an optional YAML file, and BERRY_* environment variables.
// Command-line flags are applied on top by the caller.
package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/clock"
)

// EnvPrefix is the prefix of environment variables overriding Config fields.
const EnvPrefix = "BERRY"

// Config holds the settings of the berry command.
type Config struct {
	// Clock names the clock backend: "auto", "highres", "wall" or "cpu".
	Clock string `yaml:"clock"`
	// Loops is the default loop count of bench.
	Loops int `yaml:"loops"`
	// PerfDuration is the default duration of perf.
	PerfDuration time.Duration `yaml:"perf_duration" split_words:"true"`
	// Verbose enables debug logs.
	Verbose bool `yaml:"verbose"`
	// LogTime prefixes log lines with timestamps.
	LogTime bool `yaml:"log_time" split_words:"true"`
	// Metrics enables Prometheus counters for profiled calls.
	Metrics bool `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Clock:        "auto",
		Loops:        1000,
		PerfDuration: time.Second,
		LogTime:      true,
	}
}

// Load returns the configuration read from the YAML file at path, with
// environment overrides applied. An empty path skips the file. The result
// is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config")
		}
		if err := yaml.UnmarshalStrict(b, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if cfg holds an unusable value.
func (cfg *Config) Validate() error {
	switch cfg.Clock {
	case "", "auto", "highres", "wall", "cpu":
	default:
		return errors.Errorf("unknown clock %q", cfg.Clock)
	}
	if cfg.Loops <= 0 {
		return errors.Errorf("loops must be positive; got %d", cfg.Loops)
	}
	if cfg.PerfDuration <= 0 {
		return errors.Errorf("perf duration must be positive; got %v", cfg.PerfDuration)
	}
	return nil
}

// ClockSource returns the clock backend named by cfg.Clock.
func (cfg *Config) ClockSource() (clock.Source, error) {
	return clock.Select(cfg.Clock)
}
