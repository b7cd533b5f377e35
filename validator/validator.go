package validator

import (
	"sync"

	"github.com/enverbisevac/cbn/errors"
)

type ValidatorFunc[T any] func(T) error

type Validator struct {
	mux    sync.Mutex
	Errors []error
}

func (v *Validator) HasErrors() bool {
	v.mux.Lock()
	defer v.mux.Unlock()
	return len(v.Errors) != 0
}

func (v *Validator) AddError(err ...error) {
	if err == nil {
		return
	}

	nerrs := make([]error, 0, len(err))
	for _, verr := range err {
		if verr != nil {
			nerrs = append(nerrs, verr)
		}
	}

	v.mux.Lock()
	defer v.mux.Unlock()

	v.Errors = append(v.Errors, nerrs...)
}

func (v *Validator) Check(ok bool, err error) {
	if !ok {
		v.AddError(err)
	}
}

// Err returns an invalid argument error holding all collected errors, or nil.
func (v *Validator) Err(msg string) error {
	if !v.HasErrors() {
		return nil
	}
	v.mux.Lock()
	defer v.mux.Unlock()
	return errors.InvalidArgument("%s", msg).
		Source(errors.Join(v.Errors...)).
		Detail(slicesClone(v.Errors))
}

func slicesClone(errs []error) []error {
	return append([]error(nil), errs...)
}

func Validate[T any](data T, validators ...ValidatorFunc[T]) error {
	for _, validator := range validators {
		err := validator(data)
		if err != nil {
			return err
		}
	}
	return nil
}
