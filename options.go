package eventbus

import "github.com/rs/zerolog"

// DefaultMaxListeners is the per-event-type handler cap used when no
// explicit limit is configured.
const DefaultMaxListeners = 100

// Option configures a Bus.
type Option func(*busConfig)

// busConfig contains configuration fixed at bus construction.
type busConfig struct {
	// maxListeners caps the number of handlers per event type.
	maxListeners int

	// validation enables the built-in structural check on every emit.
	validation bool

	// logging enables debug traces around the emit pipeline.
	logging bool

	// logger receives bus traces when logging is enabled.
	logger zerolog.Logger

	// defaultMiddleware is installed into the chain at construction.
	defaultMiddleware []Middleware

	// fanOutLimit bounds concurrent handler invocations per emission.
	// Zero means unbounded.
	fanOutLimit int
}

// defaultBusConfig returns sensible default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		maxListeners: DefaultMaxListeners,
		validation:   true,
		logging:      false,
		logger:       zerolog.Nop(),
	}
}

// WithMaxListeners sets the per-event-type handler cap.
// Values <= 0 are ignored.
func WithMaxListeners(n int) Option {
	return func(c *busConfig) {
		if n > 0 {
			c.maxListeners = n
		}
	}
}

// WithValidation enables or disables the built-in structural validation.
func WithValidation(enabled bool) Option {
	return func(c *busConfig) {
		c.validation = enabled
	}
}

// WithLogging enables or disables emit debug traces.
func WithLogging(enabled bool) Option {
	return func(c *busConfig) {
		c.logging = enabled
	}
}

// WithLogger sets the logger for bus traces and implies WithLogging(true).
func WithLogger(logger zerolog.Logger) Option {
	return func(c *busConfig) {
		c.logger = logger
		c.logging = true
	}
}

// WithMiddleware installs middleware at construction time, ahead of any
// later Use calls.
func WithMiddleware(ms ...Middleware) Option {
	return func(c *busConfig) {
		c.defaultMiddleware = append(c.defaultMiddleware, ms...)
	}
}

// WithFanOutLimit bounds how many handlers run concurrently during one
// emission. Zero or negative means unbounded.
func WithFanOutLimit(n int) Option {
	return func(c *busConfig) {
		if n > 0 {
			c.fanOutLimit = n
		}
	}
}
