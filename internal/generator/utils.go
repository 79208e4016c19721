package generator

import (
	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
)

// convertSchema copies an analyzer schema into the document model, keeping
// property order.
func (g *Generator) convertSchema(schema *analyzer.Schema) *Schema {
	if schema == nil {
		return nil
	}
	out := &Schema{Type: schema.Type}
	if out.Type == "" {
		out.Type = analyzer.TypeObject
	}
	if len(schema.Properties) > 0 {
		out.Properties = NewOrderedMap[*Schema]()
		for _, prop := range schema.Properties {
			out.Properties.Set(prop.Name, g.convertSchema(prop.Schema))
		}
	}
	if schema.Items != nil {
		out.Items = g.convertSchema(schema.Items)
	}
	return out
}

func (g *Generator) requestBodySchema(body *analyzer.RequestBody) *Schema {
	schema := &Schema{
		Type:       analyzer.TypeObject,
		Properties: NewOrderedMap[*Schema](),
	}
	for _, prop := range body.Properties {
		schema.Properties.Set(prop.Name, g.convertSchema(prop.Schema))
	}
	if len(body.Required) > 0 {
		schema.Required = append([]string(nil), body.Required...)
	}
	return schema
}
