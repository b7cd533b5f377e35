package cbn

import (
	"context"
	"net/http"
	"time"

	"github.com/enverbisevac/cbn/validator"
	"github.com/go-logr/logr"
	"golang.org/x/text/language"
)

const (
	DefaultBaseURL   = "http://api.colourbynumbers.org/cbn-live"
	DefaultUserAgent = "CBN/4.2.5 CFNetwork/1"
	DefaultTimeout   = 10 * time.Second

	LockPath   = "requestLock"
	SubmitPath = "setColours"

	// RequestIDHeader carries a per request identifier for log correlation.
	RequestIDHeader = "X-Request-ID"
)

var DefaultLanguage = language.MustParse("sv-SE")

// Config holds the client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	Language   language.Tag
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logr.Logger
	Debug      bool
}

func defaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Language:  DefaultLanguage,
		Timeout:   DefaultTimeout,
		Logger:    logr.Discard(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var v validator.Validator
	v.Check(validator.IsURL(c.BaseURL), errorf("base url %q must be an absolute http(s) url", c.BaseURL))
	v.Check(validator.Positive(c.Timeout), errorf("timeout must be positive, got %s", c.Timeout))
	v.Check(c.Language != language.Und, errorf("language must be set"))
	v.Check(validator.MaxRunes(c.UserAgent, 256), errorf("user agent is too long"))
	return v.Err("invalid client configuration")
}

func (c Config) logger(ctx context.Context) logr.Logger {
	if log, err := logr.FromContext(ctx); err == nil {
		return log
	}
	return c.Logger
}

// An Option configures a client.
type Option interface {
	Apply(*Config)
}

// OptionFunc is a function that configures a client config.
type OptionFunc func(*Config)

// Apply calls f(config).
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithUserAgent returns an option that sets the User-Agent header.
func WithUserAgent(value string) Option {
	return OptionFunc(func(c *Config) {
		c.UserAgent = value
	})
}

// WithLanguage returns an option that sets the Accept-Language header.
func WithLanguage(tag language.Tag) Option {
	return OptionFunc(func(c *Config) {
		c.Language = tag
	})
}

// WithTimeout returns an option that bounds every request.
func WithTimeout(value time.Duration) Option {
	return OptionFunc(func(c *Config) {
		c.Timeout = value
	})
}

// WithHTTPClient returns an option that replaces the http client.
func WithHTTPClient(client *http.Client) Option {
	return OptionFunc(func(c *Config) {
		c.HTTPClient = client
	})
}

// WithLogger returns an option that sets the logger used when the request
// context carries none.
func WithLogger(log logr.Logger) Option {
	return OptionFunc(func(c *Config) {
		c.Logger = log
	})
}

// WithDebug returns an option that logs response bodies at info level.
func WithDebug(value bool) Option {
	return OptionFunc(func(c *Config) {
		c.Debug = value
	})
}
