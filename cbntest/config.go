package cbntest

import (
	"time"

	"github.com/enverbisevac/cbn/lock/inmem"
)

// Config holds the configuration for the fake service.
type Config struct {
	// Prefix is the path the endpoints are mounted under.
	Prefix string

	// MaxTime is the lock validity reported to clients and enforced by the
	// device lock.
	MaxTime time.Duration

	// LockResponse, when set, is written verbatim for every lock request.
	LockResponse []byte

	// SubmitResponse, when set, is written verbatim for every submission.
	SubmitResponse []byte

	// HTTPStatus, when set, is used for every reply.
	HTTPStatus int

	// Delay holds every reply back. Requests cancelled meanwhile get no reply.
	Delay time.Duration

	// KeepLock keeps the lock held after an accepted submission.
	KeepLock bool

	device *inmem.Device
}

// An Option configures a fake service.
type Option interface {
	Apply(*Config)
}

// OptionFunc is a function that configures a fake service config.
type OptionFunc func(*Config)

// Apply calls f(config).
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithPrefix mounts the endpoints under prefix, e.g. "/cbn-live".
func WithPrefix(prefix string) Option {
	return OptionFunc(func(c *Config) {
		c.Prefix = prefix
	})
}

// WithMaxTime sets the lock validity.
func WithMaxTime(d time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.MaxTime = d
	})
}

// WithLockResponse forces the body of every lock reply.
func WithLockResponse(body string) Option {
	return OptionFunc(func(c *Config) {
		c.LockResponse = []byte(body)
	})
}

// WithSubmitResponse forces the body of every submission reply.
func WithSubmitResponse(body string) Option {
	return OptionFunc(func(c *Config) {
		c.SubmitResponse = []byte(body)
	})
}

// WithHTTPStatus forces the http status of every reply.
func WithHTTPStatus(status int) Option {
	return OptionFunc(func(c *Config) {
		c.HTTPStatus = status
	})
}

// WithDelay holds every reply back for d.
func WithDelay(d time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.Delay = d
	})
}

// WithKeepLock keeps the lock held after accepted submissions.
func WithKeepLock() Option {
	return OptionFunc(func(c *Config) {
		c.KeepLock = true
	})
}

// WithDevice replaces the device lock.
func WithDevice(device *inmem.Device) Option {
	return OptionFunc(func(c *Config) {
		c.device = device
	})
}
