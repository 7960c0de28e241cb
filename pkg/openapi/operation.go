package openapi

import "net/http"

// Operation describes one method on a path. The With methods mutate and
// return the receiver so a route can be described in a single expression.
type Operation struct {
	Summary     string            `json:"summary,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Parameters  []*Parameter      `json:"parameters,omitempty"`
	RequestBody *RequestBody      `json:"requestBody,omitempty"`
	Responses   map[int]*Response `json:"responses"`
}

// Op starts an operation with a bare 200 response.
func Op(summary string, tags ...string) *Operation {
	return &Operation{
		Summary:   summary,
		Tags:      tags,
		Responses: map[int]*Response{http.StatusOK: {Description: "OK"}},
	}
}

func (o *Operation) WithParams(params ...*Parameter) *Operation {
	o.Parameters = append(o.Parameters, params...)
	return o
}

// WithBody requires a JSON body of the named schema and documents the
// 400 returned when it fails to decode or validate.
func (o *Operation) WithBody(schemaName string) *Operation {
	o.RequestBody = RequestBodyJSON(schemaName, true)
	return o.WithResponse(http.StatusBadRequest, ResponseRef(RespBadRequest))
}

func (o *Operation) WithResponse(status int, r *Response) *Operation {
	o.Responses[status] = r
	return o
}

func (o *Operation) NotFound() *Operation {
	return o.WithResponse(http.StatusNotFound, ResponseRef(RespNotFound))
}

// Upstream documents the failures of a call to an external backend.
func (o *Operation) Upstream() *Operation {
	o.Responses[http.StatusBadGateway] = ResponseRef(RespBadGateway)
	o.Responses[http.StatusServiceUnavailable] = ResponseRef(RespUnavailable)
	return o
}
