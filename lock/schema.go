package lock

import (
	"github.com/swaggest/jsonschema-go"
)

// EnvelopeSchema returns the JSON schema of Envelope.
func EnvelopeSchema() (jsonschema.Schema, error) {
	r := jsonschema.Reflector{}
	return r.Reflect(Envelope{}, jsonschema.InlineRefs)
}
