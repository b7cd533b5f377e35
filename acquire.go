package cbn

import (
	"context"

	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/httputil"
	"github.com/enverbisevac/cbn/lock"
	"github.com/google/uuid"
)

var _ lock.Acquirer = (*Acquirer)(nil)

// Acquirer requests the device lock.
type Acquirer struct {
	transport Transport
	config    Config
}

// NewAcquirer creates an Acquirer that sends its requests through t.
func NewAcquirer(t Transport, options ...Option) *Acquirer {
	config := defaultConfig()
	for _, opt := range options {
		opt.Apply(&config)
	}
	return &Acquirer{
		transport: t,
		config:    config,
	}
}

// Acquire performs exactly one lock request. A lock held by someone else is
// reported as a busy error and is not retried.
func (a *Acquirer) Acquire(ctx context.Context) (lock.Lock, error) {
	ctx, cancel := withTimeout(ctx, a.config.Timeout)
	defer cancel()

	id := uuid.NewString()
	log := a.config.logger(ctx).WithValues("op", errors.OpAcquire, "request_id", id)

	resp, err := a.transport.Get(ctx, LockPath,
		httputil.Header("Accept", "application/json"),
		httputil.Header("Accept-Language", a.config.Language.String()),
		httputil.Header("Connection", "keep-alive"),
		httputil.Header(RequestIDHeader, id),
	)
	if err != nil {
		err = transportError(errors.OpAcquire, err)
		log.V(1).Info("lock request failed", "error", err.Error())
		return lock.Lock{}, err
	}

	l, err := lock.ParseResponse(resp.Body)
	if err != nil {
		log.V(1).Info("lock not granted", "code", errors.AsCode(err))
		return lock.Lock{}, err
	}

	if ttl, ok := l.TTL(); ok {
		log = log.WithValues("max_duration", ttl.String())
	}
	log.V(1).Info("lock granted")

	return l, nil
}
