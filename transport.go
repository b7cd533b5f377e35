package cbn

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/httputil"
)

// Transport issues GET requests and returns status plus body.
// *httputil.Client satisfies it.
type Transport interface {
	Get(ctx context.Context, rawurl string, options ...httputil.RequestOption) (*httputil.Response, error)
}

var _ Transport = (*httputil.Client)(nil)

func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// transportError classifies a failed request.
func transportError(op errors.Op, err error) error {
	if st := errors.AsStatus(err); st != nil {
		return st.WithOp(op)
	}

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return errors.Timeout("request timed out").WithOp(op).Source(err)
	}

	var er httputil.ErrorResponse
	if errors.As(err, &er) {
		return errors.Transport("unexpected http status %d", er.Status).
			WithOp(op).
			Source(err).
			Detail(errors.Response{Body: []byte(er.Payload)})
	}

	return errors.Transport("request failed").WithOp(op).Source(err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
