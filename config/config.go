// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads client configuration from defaults, an optional
// YAML file, and REVERSO_ environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load. The rest
// of the variable name is lower-cased, and each underscore separates a
// key level: REVERSO_LOG_LEVEL sets log.level.
const EnvPrefix = "REVERSO_"

// Config is the complete client configuration.
type Config struct {
	URL          string            `koanf:"url" yaml:"url" validate:"required,url"`
	Username     string            `koanf:"username" yaml:"username" validate:"required"`
	Password     string            `koanf:"password" yaml:"password" validate:"required"`
	Timeout      time.Duration     `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
	MaxRetries   int               `koanf:"maxretries" yaml:"maxretries" validate:"min=0"`
	Proxy        string            `koanf:"proxy" yaml:"proxy" validate:"omitempty,url"`
	Headers      map[string]string `koanf:"headers" yaml:"headers"`
	PlatformInfo bool              `koanf:"platforminfo" yaml:"platforminfo"`
	App          AppConfig         `koanf:"app" yaml:"app"`
	Backoff      BackoffConfig     `koanf:"backoff" yaml:"backoff"`
	Rate         RateConfig        `koanf:"rate" yaml:"rate"`
	Log          LogConfig         `koanf:"log" yaml:"log"`
}

// AppConfig identifies the calling application in the user agent.
type AppConfig struct {
	Name    string `koanf:"name" yaml:"name" validate:"required_with=Version"`
	Version string `koanf:"version" yaml:"version" validate:"required_with=Name"`
}

// BackoffConfig holds the exponential backoff parameters.
type BackoffConfig struct {
	Base       time.Duration `koanf:"base" yaml:"base" validate:"gt=0"`
	Multiplier float64       `koanf:"multiplier" yaml:"multiplier" validate:"gte=1"`
	Max        time.Duration `koanf:"max" yaml:"max" validate:"gtefield=Base"`
}

// RateConfig throttles physical attempts. A zero Limit disables
// throttling.
type RateConfig struct {
	Limit float64 `koanf:"limit" yaml:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" yaml:"burst" validate:"min=0"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty" yaml:"pretty"`
}

// Load loads configuration with the process environment. See LoadWith.
func Load(path string) (*Config, error) {
	return LoadWith(path, os.Environ())
}

// LoadWith loads configuration from multiple sources with priority:
//  1. Environment variables in environ (highest priority)
//  2. The YAML file at path, unless path is empty
//  3. Default values (lowest priority)
//
// The result is validated before it is returned.
func LoadWith(path string, environ []string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
		EnvironFunc: func() []string { return environ },
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"timeout":            "10s",
		"maxretries":         5,
		"platforminfo":       true,
		"backoff.base":       "1s",
		"backoff.multiplier": 1.6,
		"backoff.max":        "120s",
		"rate.limit":         0,
		"rate.burst":         1,
		"log.level":          "info",
		"log.pretty":         false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
