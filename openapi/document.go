// Package openapi describes the HTTP surface of the LED matrix service as an
// OpenAPI 3 document.
package openapi

import (
	"encoding/json"
	"net/http"
	"path"

	"github.com/enverbisevac/cbn/lock"
	"github.com/swaggest/openapi-go/openapi3"
)

const (
	Title   = "Colour by Numbers"
	Version = "4.2.5"
)

// SubmitQuery holds the query parameters of a colour submission.
type SubmitQuery struct {
	Hash    string `query:"hash" required:"true" description:"Token returned by requestLock."`
	Colours string `query:"colours" required:"true" description:"JSON object keyed \"0\"..\"9\" with [R,G,B] values."`
}

// Operations returns the endpoints of the service.
func Operations() []Operation {
	return []Operation{
		{
			Method:      http.MethodGet,
			Path:        "/requestLock",
			ID:          "requestLock",
			Summary:     "Request the exclusive device lock",
			Description: "Status code 0 means the lock is held by someone else, 1 means granted with hash and maxtime.",
			Tags:        []string{"lock"},
			Responses: map[int]any{
				http.StatusOK: new(lock.Envelope),
			},
		},
		{
			Method:      http.MethodGet,
			Path:        "/setColours",
			ID:          "setColours",
			Summary:     "Set the colours of all ten positions",
			Description: "Status code 1 means the colours were accepted.",
			Tags:        []string{"colours"},
			Request:     new(SubmitQuery),
			Responses: map[int]any{
				http.StatusOK: new(lock.Envelope),
			},
		},
	}
}

// Document builds the OpenAPI document with every path mounted under prefix.
func Document(prefix string) (*openapi3.Spec, error) {
	reflector := openapi3.NewReflector()
	spec := reflector.SpecEns()
	spec.Info.Title = Title
	spec.Info.Version = Version

	prefix = path.Join("/", prefix)
	if prefix == "/" {
		prefix = ""
	}

	for _, o := range Operations() {
		op, err := o.OperationContext(reflector, prefix)
		if err != nil {
			return nil, err
		}
		if err := reflector.AddOperation(op); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// Handler serves the document as JSON.
func Handler(prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spec, err := Document(prefix)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(spec)
	})
}
