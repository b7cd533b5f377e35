package httputil

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/enverbisevac/cbn/validator"
)

type ParamTypes interface {
	~string | ~int | ~int64 | ~uint | ~bool | ~float64
}

type FromConstraint interface {
	*http.Request | *url.URL | url.Values
}

func QueryParamOrDefault[T ParamTypes, K FromConstraint](from K, param string, defValue T, validators ...validator.ValidatorFunc[T]) T {
	value, err := QueryParam(from, param, validators...)
	if err != nil {
		return defValue
	}
	return value
}

// QueryParam reads the first value of param and converts it to T. Missing
// and empty values are errors.
func QueryParam[T ParamTypes, K FromConstraint](from K, param string, validators ...validator.ValidatorFunc[T]) (T, error) {
	var (
		zero   T
		result any
		err    error
		values url.Values
	)

	switch t := any(from).(type) {
	case *http.Request:
		values = t.URL.Query()
	case *url.URL:
		values = t.Query()
	case url.Values:
		values = t
	}

	paramValues, ok := values[param]
	if !ok || len(paramValues) == 0 {
		return zero, fmt.Errorf("%s param not found in query", param)
	}

	paramValue := paramValues[0]
	if paramValue == "" {
		return zero, fmt.Errorf("%s param value is empty", param)
	}

	switch any(zero).(type) {
	case string:
		result = paramValue
	case int:
		var v int64
		v, err = strconv.ParseInt(paramValue, 10, 32)
		result = int(v)
	case int64:
		result, err = strconv.ParseInt(paramValue, 10, 64)
	case uint:
		var v uint64
		v, err = strconv.ParseUint(paramValue, 10, 32)
		result = uint(v)
	case bool:
		result, err = strconv.ParseBool(paramValue)
	case float64:
		result, err = strconv.ParseFloat(paramValue, 64)
	default:
		err = fmt.Errorf("%s param type not supported %T", param, zero)
	}

	if err != nil {
		return zero, fmt.Errorf("%s param type conversion error: %w", param, err)
	}

	// check if value is validated or return default value
	if err = validator.Validate(result.(T), validators...); err != nil {
		return zero, fmt.Errorf("%s param validation failed, err: %w", param, err)
	}

	return result.(T), nil
}
