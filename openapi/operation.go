package openapi

import (
	"fmt"

	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// Operation describes one endpoint of the service.
type Operation struct {
	Method      string
	Path        string
	ID          string
	Summary     string
	Description string
	Tags        []string

	// Request is a struct whose query tags name the parameters.
	Request any

	Responses map[int]any
}

// OperationContext maps o onto reflector under prefix.
func (o *Operation) OperationContext(
	reflector *openapi3.Reflector,
	prefix string,
) (openapi.OperationContext, error) {
	op, err := reflector.NewOperationContext(o.Method, prefix+o.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to map OperationContext %s: %w", o.ID, err)
	}

	op.SetID(o.ID)
	op.SetSummary(o.Summary)
	op.SetDescription(o.Description)
	op.SetTags(o.Tags...)

	if o.Request != nil {
		op.AddReqStructure(o.Request)
	}

	for status, object := range o.Responses {
		op.AddRespStructure(object, openapi.WithHTTPStatus(status))
	}

	return op, nil
}
