package generator

import "go.uber.org/zap"

type Generator struct {
	config Config
	logger *zap.Logger
}

type Config struct {
	Title       string
	Version     string
	Description string
}

type OpenAPISpec struct {
	OpenAPI string                 `json:"openapi" yaml:"openapi"`
	Info    Info                   `json:"info" yaml:"info"`
	Paths   *OrderedMap[*PathItem] `json:"paths" yaml:"paths"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
}

// operation returns the slot for method, or nil for unknown methods.
func (p *PathItem) operation(method string) **Operation {
	switch method {
	case "get":
		return &p.Get
	case "post":
		return &p.Post
	case "put":
		return &p.Put
	case "delete":
		return &p.Delete
	case "patch":
		return &p.Patch
	case "head":
		return &p.Head
	case "options":
		return &p.Options
	}
	return nil
}

// Operations returns the operations of the item in field order.
func (p *PathItem) Operations() []*Operation {
	var ops []*Operation
	for _, op := range []*Operation{p.Get, p.Post, p.Put, p.Delete, p.Patch, p.Head, p.Options} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

type Operation struct {
	Summary     string                `json:"summary" yaml:"summary"`
	OperationID string                `json:"operationId" yaml:"operationId"`
	Tags        []string              `json:"tags" yaml:"tags"`
	Parameters  []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   *OrderedMap[Response] `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	In       string `json:"in" yaml:"in"`
	Required bool   `json:"required" yaml:"required"`
	Schema   Schema `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Type       string               `json:"type,omitempty" yaml:"type,omitempty"`
	Properties *OrderedMap[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      *Schema              `json:"items,omitempty" yaml:"items,omitempty"`
	Required   []string             `json:"required,omitempty" yaml:"required,omitempty"`
}
