// Package inmem implements the exclusive device lock of the LED matrix
// service in memory. Tokens expire server-side after the configured TTL;
// there is no client obligation to release them.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/enverbisevac/cbn/errors"
	"github.com/google/uuid"
)

var (
	ErrNotHeld = errors.New("lock: token does not hold the lock")
	ErrExpired = errors.New("lock: token expired")
)

// Device guards a single shared device.
type Device struct {
	config Config

	mu      sync.Mutex
	holder  string
	expires time.Time
	grants  int
}

// New creates a new in-memory device lock.
func New(options ...Option) *Device {
	config := Config{
		TTL:      30 * time.Second,
		Now:      time.Now,
		NewToken: uuid.NewString,
	}
	for _, opt := range options {
		opt.Apply(&config)
	}

	return &Device{
		config: config,
	}
}

// TTL returns the validity of granted tokens.
func (d *Device) TTL() time.Duration {
	return d.config.TTL
}

// TryAcquire attempts to take the lock without blocking. It returns the new
// token and true when the lock was free or its holder had expired.
func (d *Device) TryAcquire(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.heldLocked() {
		return "", false, nil
	}

	d.holder = d.config.NewToken()
	d.grants++
	if d.config.TTL > 0 {
		d.expires = d.config.Now().Add(d.config.TTL)
	} else {
		d.expires = time.Time{}
	}
	return d.holder, true, nil
}

// Check reports whether token currently holds the lock.
func (d *Device) Check(token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.holder == "" || token != d.holder {
		return ErrNotHeld
	}
	if d.expiredLocked() {
		return ErrExpired
	}
	return nil
}

// Release frees the lock if token holds it.
func (d *Device) Release(token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.holder == "" || token != d.holder {
		return ErrNotHeld
	}
	d.holder = ""
	d.expires = time.Time{}
	return nil
}

// Held reports whether any unexpired token holds the lock.
func (d *Device) Held() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.heldLocked()
}

// Grants returns how many tokens have been handed out.
func (d *Device) Grants() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grants
}

func (d *Device) heldLocked() bool {
	return d.holder != "" && !d.expiredLocked()
}

func (d *Device) expiredLocked() bool {
	return !d.expires.IsZero() && !d.config.Now().Before(d.expires)
}
