// Package lock holds the lock-request protocol of the LED matrix service:
// the response envelope, the three-way status dispatch and the Lock value
// handed from acquisition to submission.
package lock

import (
	"context"
	"time"

	"github.com/enverbisevac/cbn/optional"
)

// Acquirer obtains the exclusive mutation lock on the shared device.
type Acquirer interface {
	// Acquire performs one lock request. It never blocks waiting for a busy
	// lock to become free; contention is reported as a busy error.
	Acquire(ctx context.Context) (Lock, error)
}

// Lock is an opaque credential for one mutation window. The zero value is not
// a valid lock; locks are only produced by ParseResponse.
type Lock struct {
	// Token is service-assigned and must be sent back verbatim.
	Token string

	// MaxDuration is the advisory validity in seconds, as reported by the
	// service. It is not enforced client-side.
	MaxDuration optional.Type[float64]
}

// TTL returns MaxDuration as a time.Duration when the service reported one.
func (l Lock) TTL() (time.Duration, bool) {
	secs, ok := l.MaxDuration.Value()
	if !ok || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
