package openapi

import "maps"

// Shared component response names.
const (
	RespBadRequest  = "BadRequest"
	RespNotFound    = "NotFound"
	RespConflict    = "Conflict"
	RespBadGateway  = "BadGateway"
	RespUnavailable = "Unavailable"
)

type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// NewComponents seeds the PageRequest schema and the error responses
// every handler can produce. All errors share the {"error": "..."} body.
func NewComponents() *Components {
	errorBody := jsonContent(&Schema{
		Type:     "object",
		Required: []string{"error"},
		Properties: map[string]*Schema{
			"error": {Type: "string"},
		},
	})

	responses := make(map[string]*Response)
	for name, desc := range map[string]string{
		RespBadRequest:  "Invalid request",
		RespNotFound:    "Resource not found",
		RespConflict:    "Resource conflict",
		RespBadGateway:  "Upstream call failed",
		RespUnavailable: "Backend not configured or unreachable",
	} {
		responses[name] = &Response{Description: desc, Content: errorBody}
	}

	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "1-indexed page", Example: 1},
					"page_size": {Type: "integer", Example: 20},
					"search":    {Type: "string"},
					"sort": {
						Type:        "string",
						Description: "Comma-separated fields, - prefix for descending",
						Example:     "-updated_at,session_id",
					},
				},
			},
		},
		Responses: responses,
	}
}

func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
