package cbn

import (
	"context"
	"net/url"

	"github.com/enverbisevac/cbn/colour"
	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/httputil"
	"github.com/enverbisevac/cbn/lock"
	"github.com/google/uuid"
)

// SubmitRequest is the outer request of a colour submission. Colours holds the
// JSON encoded state as a plain string; it is never inlined as nested JSON.
type SubmitRequest struct {
	Hash    string `json:"hash"`
	Colours string `json:"colours"`
}

// NewSubmitRequest encodes state for submission under l.
func NewSubmitRequest(l lock.Lock, state colour.State) SubmitRequest {
	return SubmitRequest{
		Hash:    l.Token,
		Colours: colour.Encode(state),
	}
}

// Values returns the request as URL query parameters.
func (r SubmitRequest) Values() url.Values {
	return url.Values{
		"hash":    {r.Hash},
		"colours": {r.Colours},
	}
}

// Submitter sends colour states to the device.
type Submitter struct {
	transport Transport
	config    Config
}

// NewSubmitter creates a Submitter that sends its requests through t.
func NewSubmitter(t Transport, options ...Option) *Submitter {
	config := defaultConfig()
	for _, opt := range options {
		opt.Apply(&config)
	}
	return &Submitter{
		transport: t,
		config:    config,
	}
}

// Submit sends state authenticated by l. The state is not modified. Refusals
// by the service are reported as rejected errors, distinct from transport
// failures.
func (s *Submitter) Submit(ctx context.Context, l lock.Lock, state colour.State) error {
	ctx, cancel := withTimeout(ctx, s.config.Timeout)
	defer cancel()

	id := uuid.NewString()
	log := s.config.logger(ctx).WithValues("op", errors.OpSubmit, "request_id", id)

	req := NewSubmitRequest(l, state)
	options := []httputil.RequestOption{
		httputil.Header("Accept", "application/json"),
		httputil.Header(RequestIDHeader, id),
	}
	for key, values := range req.Values() {
		options = append(options, httputil.Query(key, values[0]))
	}

	resp, err := s.transport.Get(ctx, SubmitPath, options...)
	if err != nil {
		err = transportError(errors.OpSubmit, err)
		log.V(1).Info("submit failed", "error", err.Error())
		return err
	}

	env, err := lock.DecodeEnvelope(resp.Body)
	if err != nil {
		if st := errors.AsStatus(err); st != nil {
			st.WithOp(errors.OpSubmit)
		}
		log.V(1).Info("submit response malformed", "body", string(resp.Body))
		return err
	}

	if env.Status.Code != lock.StatusGranted {
		log.V(1).Info("colours rejected", "code", env.Status.Code, "description", env.Status.Description)
		return errors.Rejected("colours rejected with code %d: %s", env.Status.Code, env.Status.Description).
			WithOp(errors.OpSubmit).
			Detail(errors.Response{
				Code:        env.Status.Code,
				Description: env.Status.Description,
				Body:        resp.Body,
			})
	}

	log.V(1).Info("colours accepted")
	return nil
}
