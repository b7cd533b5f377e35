// Package optional holds values that may be absent from a JSON document.
//
// A field of type Type[T] distinguishes three states after decoding: the key
// was missing (unset), the key held null, or the key held a value. Tag such
// fields with `json:",omitzero"` so unset values are left out when encoding.
package optional

import (
	"encoding/json"

	"github.com/swaggest/jsonschema-go"
)

type Type[T any] struct {
	set   bool
	null  bool
	value T
}

func New[T any](value T) Type[T] {
	return Type[T]{
		value: value,
		set:   true,
		null:  false,
	}
}

// Null returns a set Type holding null.
func Null[T any]() Type[T] {
	return Type[T]{set: true, null: true}
}

func (t *Type[T]) Set(value T) {
	t.value = value
	t.set = true
	t.null = false
}

func (t *Type[T]) SetNull() {
	t.set = true
	t.null = true
}

func (t Type[T]) IsSet() bool { return t.set }

func (t Type[T]) IsNull() bool { return t.set && t.null }

// IsZero reports whether the value is unset. Used by omitzero.
func (t Type[T]) IsZero() bool {
	return !t.set
}

// Value returns the value and whether it is present and not null.
func (t Type[T]) Value() (T, bool) {
	return t.value, t.set && !t.null
}

func (t Type[T]) ValueOrDefault(defaultValue T) T {
	if t.set && !t.null {
		return t.value
	}
	return defaultValue
}

// MarshalJSON handles JSON serialization
func (t Type[T]) MarshalJSON() ([]byte, error) {
	if !t.set || t.null {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON handles JSON deserialization. It is only called for keys that
// are present in the document.
func (t *Type[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.SetNull()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.Set(v)
	return nil
}

// JSONSchema describes T as a nullable schema.
func (*Type[T]) JSONSchema() (jsonschema.Schema, error) {
	var schema jsonschema.Schema
	var zero T

	switch any(zero).(type) {
	case string:
		schema.WithType(jsonschema.String.Type())
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		schema.WithType(jsonschema.Integer.Type())
	case float32, float64:
		schema.WithType(jsonschema.Number.Type())
	case bool:
		schema.WithType(jsonschema.Boolean.Type())
	default:
		if obj, ok := any(zero).(jsonschema.Exposer); ok {
			return obj.JSONSchema()
		}
	}

	schema.AddType(jsonschema.Null)

	return schema, nil
}
