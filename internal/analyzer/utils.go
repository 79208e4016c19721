package analyzer

import (
	"net/http"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func (a *Analyzer) isHTTPMethod(method string) bool {
	methods := []string{"get", "post", "put", "patch", "delete", "head", "options"}
	for _, m := range methods {
		if m == strings.ToLower(method) {
			return true
		}
	}
	return false
}

func isFunctionNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case jsArrowFunction, jsFunction, jsFunctionExpression, jsFunctionDeclaration:
		return true
	}
	return false
}

// isWildcardPath reports catch-all registrations such as "*" or "/api/*".
func isWildcardPath(path string) bool {
	return path == "*" || strings.Contains(path, "*")
}

func statusDescription(status string) string {
	code, err := strconv.Atoi(status)
	if err != nil {
		return "Response"
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Response"
}

func objectSchema(props ...Property) *Schema {
	return &Schema{Type: TypeObject, Properties: props}
}

func primitive(typ string) *Schema {
	return &Schema{Type: typ}
}

// messageSchema is the generic error payload, {message: string}.
func messageSchema() *Schema {
	return objectSchema(Property{Name: "message", Schema: primitive(TypeString)})
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
