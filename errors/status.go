package errors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeBusy              Code = "busy"
	CodeProtocolViolation Code = "protocol_violation"
	CodeUnknownStatus     Code = "unknown_status"
	CodeMalformedResponse Code = "malformed_response"
	CodeRejected          Code = "rejected"
	CodeTransport         Code = "transport"
	CodeTimeout           Code = "timeout"
	CodeInvalidArgument   Code = "invalid"
	CodeInternal          Code = "internal"
)

// Op names the protocol step that failed.
type Op string

const (
	OpAcquire Op = "acquire"
	OpSubmit  Op = "submit"
)

// Response describes the service reply behind an error.
type Response struct {
	// Status code reported by the service envelope.
	Code uint `json:"code"`

	// Status description reported by the service envelope.
	Description string `json:"description,omitempty"`

	// Raw response body, unmodified.
	Body []byte `json:"body,omitempty"`

	// Parser diagnostic for bodies that could not be decoded.
	Reason string `json:"reason,omitempty"`
}

type Status struct {
	// Source error
	Err error `json:"source_error,omitempty"`

	// Protocol step, empty when not tied to a request.
	Op Op `json:"op,omitempty"`

	// Machine-readable status code.
	Code Code `json:"code"`

	// Human-readable error message.
	Message string `json:"message"`

	// Payload
	Payload any `json:"detail,omitempty"`
}

// Unwrap status error and return source error.
func (e *Status) Unwrap() error {
	return e.Err
}

// Source sets the origin err and return error.
func (e *Status) Source(err error) *Status {
	e.Err = err
	return e
}

// WithOp sets the protocol step.
func (e *Status) WithOp(op Op) *Status {
	e.Op = op
	return e
}

// Error implements the error interface.
func (e *Status) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = string(e.Op) + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Status) Detail(arg any) *Status {
	e.Payload = arg
	return e
}

// Is reports whether target is a *Status with the same code. A target
// without code matches any *Status.
func (e *Status) Is(target error) bool {
	t, ok := target.(*Status)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// AsCode unwraps an error and returns its code.
// Non-application errors always return CodeInternal.
func AsCode(err error) Code {
	if err == nil {
		return ""
	}
	e := AsStatus(err)
	if e != nil {
		return e.Code
	}
	return CodeInternal
}

// AsOp unwraps an error and returns the protocol step it belongs to.
func AsOp(err error) Op {
	if e := AsStatus(err); e != nil {
		return e.Op
	}
	return ""
}

// Message unwraps an error and returns its message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	e := AsStatus(err)
	if e != nil {
		return e.Message
	}
	return err.Error()
}

// Detail returns generic type stored in details.
func Detail[T any](err error) (detail *T) {
	if err == nil {
		return nil
	}
	e := AsStatus(err)
	if e != nil {
		v, ok := e.Payload.(T)
		if ok {
			return &v
		}
	}
	return nil
}

// AsStatus return err as Status error.
func AsStatus(err error) (e *Status) {
	if err == nil {
		return nil
	}
	if errors.As(err, &e) {
		return
	}
	return
}

// Source read status error source.
func Source(err error) error {
	if e := AsStatus(err); e != nil {
		return e.Err
	}
	return err
}

// IsStatus checks if err is Status type.
func IsStatus(err error) bool {
	return errors.Is(err, &Status{})
}

// Format is a helper function to return an Error with a given status and formatted message.
func Format(code Code, format string, args ...interface{}) *Status {
	msg := fmt.Sprintf(format, args...)
	newErr := &Status{
		Code:    code,
		Message: msg,
	}
	return newErr
}

// Busy is returned when the device lock is held by another actor.
func Busy(format string, args ...interface{}) *Status {
	return Format(CodeBusy, format, args...)
}

// ProtocolViolation is returned when the service breaks its own contract.
func ProtocolViolation(format string, args ...interface{}) *Status {
	return Format(CodeProtocolViolation, format, args...)
}

// UnknownStatus is returned for status codes the client does not recognise.
func UnknownStatus(format string, args ...interface{}) *Status {
	return Format(CodeUnknownStatus, format, args...)
}

// MalformedResponse is returned when a body does not decode as an envelope.
func MalformedResponse(format string, args ...interface{}) *Status {
	return Format(CodeMalformedResponse, format, args...)
}

// Rejected is returned when the service refuses a colour submission.
func Rejected(format string, args ...interface{}) *Status {
	return Format(CodeRejected, format, args...)
}

// Transport is a helper function to return a network failure.
func Transport(format string, args ...interface{}) *Status {
	return Format(CodeTransport, format, args...)
}

// Timeout is a helper function to return an expired call.
func Timeout(format string, args ...interface{}) *Status {
	return Format(CodeTimeout, format, args...)
}

// InvalidArgument is a helper function to return an invalid argument Error.
func InvalidArgument(format string, args ...interface{}) *Status {
	return Format(CodeInvalidArgument, format, args...)
}

// Internal is a helper function to return an internal Error.
func Internal(format string, args ...interface{}) *Status {
	return Format(CodeInternal, format, args...)
}

// IsBusy checks if err is busy error.
func IsBusy(err error) bool {
	return AsCode(err) == CodeBusy
}

// IsProtocolViolation checks if err is protocol violation error.
func IsProtocolViolation(err error) bool {
	return AsCode(err) == CodeProtocolViolation
}

// IsUnknownStatus checks if err is unknown status error.
func IsUnknownStatus(err error) bool {
	return AsCode(err) == CodeUnknownStatus
}

// IsMalformedResponse checks if err is malformed response error.
func IsMalformedResponse(err error) bool {
	return AsCode(err) == CodeMalformedResponse
}

// IsRejected checks if err is rejected submission error.
func IsRejected(err error) bool {
	return AsCode(err) == CodeRejected
}

// IsTransport checks if err is transport error.
func IsTransport(err error) bool {
	return AsCode(err) == CodeTransport
}

// IsTimeout checks if err is timeout error.
func IsTimeout(err error) bool {
	return AsCode(err) == CodeTimeout
}

// IsInvalidArgument checks if err is invalid argument error.
func IsInvalidArgument(err error) bool {
	return AsCode(err) == CodeInvalidArgument
}

// IsInternal checks if err is internal error.
func IsInternal(err error) bool {
	return AsCode(err) == CodeInternal
}
