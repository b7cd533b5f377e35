package inmem

import "time"

type Config struct {
	SendTimeout time.Duration
	ChannelSize int
}

// An Option configures a pubsub instance.
type Option interface {
	Apply(*Config)
}

// OptionFunc is a function that configures a pubsub config.
type OptionFunc func(*Config)

// Apply calls f(config).
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithSendTimeout specifies how long Publish waits on a full subscriber
// before the event is dropped for it.
func WithSendTimeout(value time.Duration) Option {
	return OptionFunc(func(m *Config) {
		m.SendTimeout = value
	})
}

// WithSize specifies the buffer of every subscriber channel.
func WithSize(value int) Option {
	return OptionFunc(func(m *Config) {
		if value >= 0 {
			m.ChannelSize = value
		}
	})
}
