package inmem

import "time"

// Config holds the configuration for the in-memory device lock.
type Config struct {
	// TTL is how long a granted token stays valid. Zero means forever.
	TTL time.Duration

	// Now returns the current time.
	Now func() time.Time

	// NewToken returns a fresh lock token.
	NewToken func() string
}

// Option configures a device lock instance.
type Option interface {
	Apply(*Config)
}

// OptionFunc is a function that configures a device lock config.
type OptionFunc func(*Config)

// Apply calls f(config).
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithTTL returns an option that sets how long tokens stay valid.
func WithTTL(value time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.TTL = value
	})
}

// WithClock returns an option that replaces the time source.
func WithClock(now func() time.Time) Option {
	return OptionFunc(func(c *Config) {
		if now != nil {
			c.Now = now
		}
	})
}

// WithTokenFunc returns an option that replaces the token generator.
func WithTokenFunc(fn func() string) Option {
	return OptionFunc(func(c *Config) {
		if fn != nil {
			c.NewToken = fn
		}
	})
}
