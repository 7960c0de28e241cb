package openapi

const mediaJSON = "application/json"

type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

// PathItem holds the operations of one path. Only the methods the API
// routes are modeled.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required,omitempty"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema"`
}

type RequestBody struct {
	Required bool                  `json:"required,omitempty"`
	Content  map[string]*MediaType `json:"content"`
}

// Response is either inline or a $ref into components.responses.
type Response struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
	Ref         string                `json:"$ref,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Example     any                `json:"example,omitempty"`
	Default     any                `json:"default,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
}

func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON references a component schema as a JSON body.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{
		Required: required,
		Content:  jsonContent(SchemaRef(schemaName)),
	}
}

// ResponseJSON references a component schema as a JSON response.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{
		Description: description,
		Content:     jsonContent(SchemaRef(schemaName)),
	}
}

func PathParam(name, description string) *Parameter {
	return &Parameter{Name: name, In: "path", Required: true, Description: description, Schema: &Schema{Type: "string"}}
}

func QueryParam(name, typ, description string, required bool) *Parameter {
	return &Parameter{Name: name, In: "query", Required: required, Description: description, Schema: &Schema{Type: typ}}
}

func jsonContent(s *Schema) map[string]*MediaType {
	return map[string]*MediaType{mediaJSON: {Schema: s}}
}
