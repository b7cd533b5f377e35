package lock

import (
	"encoding/json"

	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/optional"
)

const (
	// StatusBusy means another actor currently holds the lock.
	StatusBusy uint = 0
	// StatusGranted means the lock was granted; for submissions it means the
	// colours were accepted.
	StatusGranted uint = 1
)

// Status is the mandatory status object of every envelope.
type Status struct {
	Code        uint   `json:"code"`
	Description string `json:"description"`
}

// Envelope is the JSON reply of the service endpoints.
type Envelope struct {
	Status  *Status                `json:"status" required:"true"`
	Hash    optional.Type[string]  `json:"hash,omitzero"`
	MaxTime optional.Type[float64] `json:"maxtime,omitzero"`
}

// DecodeEnvelope parses body. Bodies that are not JSON objects, or that lack
// the status object, fail with a malformed response error carrying body
// unmodified.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, errors.MalformedResponse("malformed response").
			Source(err).
			Detail(errors.Response{Body: body, Reason: err.Error()})
	}
	if env.Status == nil {
		return Envelope{}, errors.MalformedResponse("malformed response").
			Detail(errors.Response{Body: body, Reason: "status object missing"})
	}
	return env, nil
}

// Outcome is the result of a lock request. It is one of Busy, Granted or
// Unknown.
type Outcome interface {
	outcome()
}

// Busy reports that the lock is held by another actor.
type Busy struct {
	Description string
}

// Granted carries the lock handed out by the service.
type Granted struct {
	Lock Lock
}

// Unknown carries a status code the client does not recognise.
type Unknown struct {
	Code        uint
	Description string
}

func (Busy) outcome()    {}
func (Granted) outcome() {}
func (Unknown) outcome() {}

// Classify maps env to an Outcome. A granted status without hash is a
// protocol violation and never yields a Lock.
func Classify(env Envelope) (Outcome, error) {
	if env.Status == nil {
		return nil, errors.MalformedResponse("malformed response").
			Detail(errors.Response{Reason: "status object missing"})
	}

	switch env.Status.Code {
	case StatusBusy:
		return Busy{Description: env.Status.Description}, nil
	case StatusGranted:
		hash, ok := env.Hash.Value()
		if !ok {
			return nil, errors.ProtocolViolation("hash missing on success").
				Detail(errors.Response{Code: env.Status.Code, Description: env.Status.Description})
		}
		return Granted{Lock: Lock{Token: hash, MaxDuration: env.MaxTime}}, nil
	default:
		return Unknown{Code: env.Status.Code, Description: env.Status.Description}, nil
	}
}

// ParseResponse interprets a lock request reply.
func ParseResponse(body []byte) (Lock, error) {
	env, err := DecodeEnvelope(body)
	if err != nil {
		return Lock{}, withOp(err)
	}

	out, err := Classify(env)
	if err != nil {
		if st := errors.AsStatus(err); st != nil {
			if resp, ok := st.Payload.(errors.Response); ok {
				resp.Body = body
				st.Payload = resp
			}
		}
		return Lock{}, withOp(err)
	}

	switch o := out.(type) {
	case Granted:
		return o.Lock, nil
	case Busy:
		return Lock{}, errors.Busy("lock is held by another client").WithOp(errors.OpAcquire)
	case Unknown:
		return Lock{}, errors.UnknownStatus("unknown status code %d", o.Code).
			WithOp(errors.OpAcquire).
			Detail(errors.Response{Code: o.Code, Description: o.Description, Body: body})
	default:
		return Lock{}, errors.Internal("unhandled outcome %T", out).WithOp(errors.OpAcquire)
	}
}

func withOp(err error) error {
	if st := errors.AsStatus(err); st != nil {
		return st.WithOp(errors.OpAcquire)
	}
	return err
}
