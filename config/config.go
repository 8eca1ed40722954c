// Package config loads event bus configuration from a YAML file and
// environment variables. Environment variables use the EVENTBUS_ prefix
// with "__" as the section separator, e.g. EVENTBUS_BUS__MAX_LISTENERS=50.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/eventbus"
	"github.com/dshills/eventbus/middleware"
)

// Config is the top-level configuration.
type Config struct {
	Bus     BusConfig     `koanf:"bus"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// BusConfig configures the bus core and its default middleware stack.
type BusConfig struct {
	// MaxListeners caps handlers per event type.
	MaxListeners int `koanf:"max_listeners"`

	// Validation enables the built-in structural check.
	Validation bool `koanf:"validation"`

	// Logging enables emit debug traces.
	Logging bool `koanf:"logging"`

	// FanOutLimit bounds concurrent handler invocations per emission.
	// Zero means unbounded.
	FanOutLimit int `koanf:"fan_out_limit"`

	// RateLimit caps events per second via the rate-limiting middleware.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// SlowThreshold is the performance-middleware warning threshold,
	// as a Go duration string (e.g. "1s", "250ms").
	SlowThreshold string `koanf:"slow_threshold"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string `koanf:"level"`

	// Console enables human-readable console output instead of JSON.
	Console bool `koanf:"console"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// SlowThresholdDuration returns the parsed slow threshold.
// Call Validate first; invalid values fall back to the middleware default.
func (c BusConfig) SlowThresholdDuration() time.Duration {
	d, err := time.ParseDuration(c.SlowThreshold)
	if err != nil {
		return middleware.DefaultSlowThreshold
	}
	return d
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Bus.MaxListeners <= 0 {
		return fmt.Errorf("bus.max_listeners must be > 0")
	}
	if c.Bus.FanOutLimit < 0 {
		return fmt.Errorf("bus.fan_out_limit must be >= 0")
	}
	if c.Bus.RateLimit < 0 {
		return fmt.Errorf("bus.rate_limit must be >= 0")
	}
	if c.Bus.SlowThreshold != "" {
		if _, err := time.ParseDuration(c.Bus.SlowThreshold); err != nil {
			return fmt.Errorf("invalid bus.slow_threshold %q: %w", c.Bus.SlowThreshold, err)
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	return nil
}

// BusOptions converts the configuration into bus construction options,
// including the configured default middleware stack.
func (c *Config) BusOptions(logger zerolog.Logger) []eventbus.Option {
	opts := []eventbus.Option{
		eventbus.WithMaxListeners(c.Bus.MaxListeners),
		eventbus.WithValidation(c.Bus.Validation),
		eventbus.WithLogging(c.Bus.Logging),
	}
	if c.Bus.Logging {
		opts = append(opts, eventbus.WithLogger(logger))
	}
	if c.Bus.FanOutLimit > 0 {
		opts = append(opts, eventbus.WithFanOutLimit(c.Bus.FanOutLimit))
	}

	ms := []eventbus.Middleware{
		middleware.ErrorHandling(),
		middleware.Performance(logger, c.Bus.SlowThresholdDuration()),
	}
	if c.Bus.Logging {
		ms = append([]eventbus.Middleware{middleware.Logging(logger)}, ms...)
	}
	if c.Bus.RateLimit > 0 {
		ms = append(ms, middleware.RateLimit(c.Bus.RateLimit))
	}
	opts = append(opts, eventbus.WithMiddleware(ms...))

	return opts
}

// Load parses configuration from defaults, an optional YAML file, and the
// environment, then validates the result.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"bus.max_listeners":  eventbus.DefaultMaxListeners,
		"bus.validation":     true,
		"bus.logging":        false,
		"bus.fan_out_limit":  0,
		"bus.rate_limit":     0,
		"bus.slow_threshold": "1s",
		"log.level":          "info",
		"log.console":        false,
		"metrics.enabled":    false,
		"metrics.addr":       ":9102",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("EVENTBUS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "EVENTBUS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
