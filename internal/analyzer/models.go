package analyzer

// Primitive schema types produced by type inference.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

type Analysis struct {
	Routes []Route
}

type Route struct {
	Method      string // lower-case verb as registered
	Path        string // OpenAPI form, {param} placeholders
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   Responses
}

// QueryParameters returns the parameters read from the query string.
func (r Route) QueryParameters() []Parameter {
	var params []Parameter
	for _, p := range r.Parameters {
		if p.In == "query" {
			params = append(params, p)
		}
	}
	return params
}

type Parameter struct {
	Name     string
	In       string // "path", "query"
	Required bool
	Type     string
}

type RequestBody struct {
	Properties []Property
	Required   []string
}

// Property is one named member of an object schema or request body.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is a recursive payload description. Primitive schemas carry only
// Type; objects carry Properties in insertion order; arrays carry Items.
type Schema struct {
	Type       string
	Properties []Property
	Items      *Schema
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil {
		return nil
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

func (s *Schema) addProperty(name string, schema *Schema) {
	if s.Property(name) != nil {
		return
	}
	s.Properties = append(s.Properties, Property{Name: name, Schema: schema})
}

type Response struct {
	Status      string
	Description string
	Schema      *Schema // nil when the call sends no payload
}

// Responses keeps one entry per status code in detection order.
type Responses []Response

// Get returns the entry for status, if present.
func (rs Responses) Get(status string) (Response, bool) {
	for _, r := range rs {
		if r.Status == status {
			return r, true
		}
	}
	return Response{}, false
}

// Has reports whether status has already been registered.
func (rs Responses) Has(status string) bool {
	_, ok := rs.Get(status)
	return ok
}

// HandlerInfo is the merged result of running the heuristics over one handler.
type HandlerInfo struct {
	RequestName     string
	ResponseName    string
	QueryParameters []Parameter
	RequestBody     *RequestBody
	Responses       Responses
}

// addResponse inserts an entry unless the status code is already present.
// The first detection of a code wins.
func (h *HandlerInfo) addResponse(status string, schema *Schema) bool {
	if h.Responses.Has(status) {
		return false
	}
	h.Responses = append(h.Responses, Response{
		Status:      status,
		Description: statusDescription(status),
		Schema:      schema,
	})
	return true
}

func (h *HandlerInfo) addQueryParameter(param Parameter) bool {
	for _, p := range h.QueryParameters {
		if p.Name == param.Name {
			return false
		}
	}
	h.QueryParameters = append(h.QueryParameters, param)
	return true
}

// setRequestBody keeps the first body schema found for a handler.
func (h *HandlerInfo) setRequestBody(body *RequestBody) bool {
	if h.RequestBody != nil || body == nil || len(body.Properties) == 0 {
		return false
	}
	h.RequestBody = body
	return true
}

// binding tracks the application and router names seen at the top level of a
// file. The first binding of each kind wins.
type binding struct {
	app    string
	router string
}

func (b *binding) tracks(name string) bool {
	return name != "" && (name == b.app || name == b.router)
}
