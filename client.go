package cbn

import (
	"context"
	"time"

	"github.com/enverbisevac/cbn/colour"
	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/httputil"
	"github.com/enverbisevac/cbn/lock"
)

// Client owns one transport shared by an Acquirer and a Submitter.
type Client struct {
	config    Config
	transport *httputil.Client
	acquirer  *Acquirer
	submitter *Submitter
}

// New creates a client for the service at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	config := defaultConfig()
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	for _, opt := range options {
		opt.Apply(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientOptions := []httputil.ClientOption{
		httputil.WithUserAgent(config.UserAgent),
		httputil.WithLogger(config.Logger),
		httputil.WithDebug(config.Debug),
	}
	if config.HTTPClient != nil {
		clientOptions = append(clientOptions, httputil.WithHTTPClient(config.HTTPClient))
	}
	transport := httputil.NewClient(config.BaseURL, clientOptions...)

	fixed := OptionFunc(func(c *Config) { *c = config })
	return &Client{
		config:    config,
		transport: transport,
		acquirer:  NewAcquirer(transport, fixed),
		submitter: NewSubmitter(transport, fixed),
	}, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Acquire performs one lock request.
func (c *Client) Acquire(ctx context.Context) (lock.Lock, error) {
	return c.acquirer.Acquire(ctx)
}

// Submit sends state authenticated by l.
func (c *Client) Submit(ctx context.Context, l lock.Lock, state colour.State) error {
	return c.submitter.Submit(ctx, l, state)
}

// Paint acquires the lock and submits state with it. The lock used is
// returned even when the submission fails.
func (c *Client) Paint(ctx context.Context, state colour.State) (lock.Lock, error) {
	l, err := c.Acquire(ctx)
	if err != nil {
		return lock.Lock{}, err
	}
	return l, c.Submit(ctx, l, state)
}

// AcquireRetry calls Acquire up to attempts times, waiting interval between
// tries. Only busy errors are retried.
func (c *Client) AcquireRetry(ctx context.Context, attempts int, interval time.Duration) (lock.Lock, error) {
	if attempts < 1 {
		attempts = 1
	}

	log := c.config.logger(ctx)
	for i := 1; ; i++ {
		l, err := c.Acquire(ctx)
		if err == nil || !errors.IsBusy(err) {
			return l, err
		}
		if i >= attempts {
			return lock.Lock{}, errors.Busy("lock still held after %d attempts", i).WithOp(errors.OpAcquire)
		}

		log.V(1).Info("lock busy, waiting", "attempt", i, "interval", interval.String())

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return lock.Lock{}, errors.Busy("lock still held after %d attempts", i).
				WithOp(errors.OpAcquire).
				Source(ctx.Err())
		case <-t.C:
		}
	}
}
