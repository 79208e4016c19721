package generator

import (
	"fmt"
	"strings"

	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
	"go.uber.org/zap"
)

const openAPIVersion = "3.0.0"

func New(config Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{config: config, logger: logger}
}

// Generate assembles the document from the collected routes. Paths keep the
// order in which they were first registered.
func (g *Generator) Generate(analysis *analyzer.Analysis) *OpenAPISpec {
	spec := &OpenAPISpec{
		OpenAPI: openAPIVersion,
		Info: Info{
			Title:       g.config.Title,
			Version:     g.config.Version,
			Description: g.config.Description,
		},
		Paths: NewOrderedMap[*PathItem](),
	}
	if analysis == nil {
		return spec
	}

	operationIDs := make(map[string]int)

	for _, route := range analysis.Routes {
		openAPIPath := route.Path
		method := strings.ToLower(route.Method)

		pathItem, exists := spec.Paths.Get(openAPIPath)
		if !exists {
			pathItem = &PathItem{}
		}

		slot := pathItem.operation(method)
		if slot == nil {
			g.logger.Warn("unsupported method", zap.String("method", method), zap.String("path", openAPIPath))
			continue
		}
		// Skip duplicate paths
		if *slot != nil {
			g.logger.Warn("duplicate route registration ignored",
				zap.String("method", strings.ToUpper(method)),
				zap.String("path", openAPIPath))
			continue
		}

		operation := g.generateOperation(route, openAPIPath)
		operation.OperationID = uniqueOperationID(operation.OperationID, operationIDs)
		*slot = operation

		spec.Paths.Set(openAPIPath, pathItem)
	}

	return spec
}

// uniqueOperationID suffixes repeated ids with _2, _3, ...
func uniqueOperationID(id string, seen map[string]int) string {
	seen[id]++
	if seen[id] == 1 {
		return id
	}
	candidate := fmt.Sprintf("%s_%d", id, seen[id])
	for seen[candidate] > 0 {
		seen[id]++
		candidate = fmt.Sprintf("%s_%d", id, seen[id])
	}
	seen[candidate]++
	return candidate
}
