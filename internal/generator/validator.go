package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidateAndCleanSpec reconciles path parameters with path placeholders and
// then checks the document against the OpenAPI 3 schema rules.
func (g *Generator) ValidateAndCleanSpec(ctx context.Context, spec *OpenAPISpec) error {
	g.validatePaths(spec)

	if err := g.validateDocument(ctx, spec); err != nil {
		return fmt.Errorf("document validation failed: %w", err)
	}
	return nil
}

func (g *Generator) validatePaths(spec *OpenAPISpec) {
	for _, path := range spec.Paths.Keys() {
		pathItem, _ := spec.Paths.Get(path)
		g.validatePathParameters(path, pathItem)
	}
}

func (g *Generator) validatePathParameters(path string, pathItem *PathItem) {
	// Extract parameters from path
	re := regexp.MustCompile(`\{([^}]+)\}`)
	pathParams := re.FindAllStringSubmatch(path, -1)

	for _, operation := range pathItem.Operations() {
		g.validateOperationParameters(operation, pathParams)
	}
}

func (g *Generator) validateOperationParameters(operation *Operation, pathParams [][]string) {
	expectedParams := make(map[string]bool)
	var expectedOrder []string
	for _, param := range pathParams {
		if len(param) > 1 && !expectedParams[param[1]] {
			expectedParams[param[1]] = true
			expectedOrder = append(expectedOrder, param[1])
		}
	}

	// Filter operation parameters to only include valid path parameters
	var validParams []Parameter
	for _, param := range operation.Parameters {
		if param.In == "path" && !expectedParams[param.Name] {
			continue
		}
		validParams = append(validParams, param)
	}

	// Add missing path parameters
	for _, paramName := range expectedOrder {
		found := false
		for _, param := range validParams {
			if param.In == "path" && param.Name == paramName {
				found = true
				break
			}
		}
		if !found {
			validParams = append(validParams, Parameter{
				Name:     paramName,
				In:       "path",
				Required: true,
				Schema:   Schema{Type: "string"},
			})
		}
	}

	operation.Parameters = validParams
}

// validateDocument round-trips the document through kin-openapi.
func (g *Generator) validateDocument(ctx context.Context, spec *OpenAPISpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return doc.Validate(ctx)
}
