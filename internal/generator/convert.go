package generator

import (
	"regexp"
	"strings"
)

// operationID joins the lower-case method with the path stripped of every
// non-alphanumeric character, e.g. get /todos/{id} -> gettodosid.
func (g *Generator) operationID(method, path string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9]`)
	return strings.ToLower(method) + re.ReplaceAllString(path, "")
}
