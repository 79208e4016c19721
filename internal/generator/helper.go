package generator

import (
	"sort"
	"strings"

	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func (g *Generator) generateOperation(route analyzer.Route, path string) *Operation {
	operation := &Operation{
		Summary:     g.generateSummary(route.Method, path),
		OperationID: g.operationID(route.Method, path),
		Tags:        []string{g.generateTag(path)},
		Responses:   NewOrderedMap[Response](),
	}

	for _, param := range route.Parameters {
		operation.Parameters = append(operation.Parameters, Parameter{
			Name:     param.Name,
			In:       param.In,
			Required: param.Required,
			Schema:   g.generateParameterSchema(param),
		})
	}

	if route.RequestBody != nil {
		operation.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"application/json": {Schema: g.requestBodySchema(route.RequestBody)},
			},
		}
	}

	// Status codes are emitted in ascending order, not detection order.
	responses := append(analyzer.Responses(nil), route.Responses...)
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Status < responses[j].Status
	})
	for _, resp := range responses {
		operation.Responses.Set(resp.Status, g.generateResponse(resp))
	}
	if operation.Responses.Len() == 0 {
		operation.Responses.Set("200", Response{
			Description: "OK",
			Content: map[string]MediaType{
				"application/json": {Schema: &Schema{Type: "object"}},
			},
		})
	}

	return operation
}

func (g *Generator) generateResponse(resp analyzer.Response) Response {
	out := Response{Description: resp.Description}
	if resp.Schema != nil {
		out.Content = map[string]MediaType{
			"application/json": {Schema: g.convertSchema(resp.Schema)},
		}
	}
	return out
}

func (g *Generator) generateParameterSchema(param analyzer.Parameter) Schema {
	switch param.Type {
	case analyzer.TypeInteger, analyzer.TypeNumber, analyzer.TypeBoolean:
		return Schema{Type: param.Type}
	default:
		return Schema{Type: analyzer.TypeString}
	}
}

func (g *Generator) generateSummary(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// generateTag picks the operation tag: Todos or Users when the path mentions
// them, otherwise the title-cased first segment, Resources when that segment
// is a placeholder, and default for the root path.
func (g *Generator) generateTag(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "todo"):
		return "Todos"
	case strings.Contains(lower, "user"):
		return "Users"
	}

	first := strings.Split(strings.Trim(path, "/"), "/")[0]
	switch {
	case first == "":
		return "default"
	case strings.HasPrefix(first, "{"):
		return "Resources"
	}
	return cases.Title(language.English).String(first)
}
