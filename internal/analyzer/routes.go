package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

func (a *Analyzer) collectRoutes(file *sourceFile) []Route {
	root := file.root()

	bindings := a.findBindings(root, file.src)
	if bindings.app == "" && bindings.router == "" {
		a.logger.Debug("no express application or router binding found")
		return []Route{}
	}
	a.logger.Debug("tracking bindings",
		zap.String("app", bindings.app),
		zap.String("router", bindings.router))

	handlers := a.findHandlerDeclarations(root, file.src)

	routes := []Route{}
	walkNodes(root, func(node *sitter.Node) bool {
		if node.Type() != jsExpressionStatement {
			return true
		}
		expr := node.NamedChild(0)
		if expr == nil || expr.Type() != jsCallExpression {
			return true
		}
		if route := a.parseRouteCall(expr, file.src, bindings, handlers); route != nil {
			routes = append(routes, *route)
		}
		return true
	})
	return routes
}

// findBindings scans top-level declarations for `x = express()` and
// `y = express.Router()`.
func (a *Analyzer) findBindings(root *sitter.Node, src []byte) binding {
	var b binding
	forEachDeclarator(root, src, func(name string, value *sitter.Node) {
		if value.Type() != jsCallExpression {
			return
		}
		switch classifyFactory(value, src) {
		case "app":
			if b.app == "" {
				b.app = name
			} else if b.app != name {
				a.logger.Debug("ignoring additional application binding", zap.String("name", name))
			}
		case "router":
			if b.router == "" {
				b.router = name
			} else if b.router != name {
				a.logger.Debug("ignoring additional router binding", zap.String("name", name))
			}
		}
	})
	return b
}

// classifyFactory recognizes the application and router factory calls.
func classifyFactory(call *sitter.Node, src []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case jsIdentifier:
		switch fn.Content(src) {
		case "express":
			return "app"
		case "Router":
			return "router"
		}
	case jsMemberExpression:
		prop := fn.ChildByFieldName("property")
		if prop != nil && prop.Content(src) == "Router" {
			return "router"
		}
	case jsCallExpression:
		// require('express')()
		if isRequireOf(fn, src, "express") {
			return "app"
		}
	}
	return ""
}

func isRequireOf(call *sitter.Node, src []byte, module string) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != jsIdentifier || fn.Content(src) != "require" {
		return false
	}
	args := namedArgs(call)
	if len(args) != 1 {
		return false
	}
	value, ok := stringLiteral(args[0], src)
	return ok && value == module
}

// findHandlerDeclarations maps top-level function names to their nodes so
// that handlers passed by name can be analyzed.
func (a *Analyzer) findHandlerDeclarations(root *sitter.Node, src []byte) map[string]*sitter.Node {
	handlers := make(map[string]*sitter.Node)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := unwrapStatement(root.NamedChild(i))
		if stmt.Type() == jsFunctionDeclaration {
			if name := stmt.ChildByFieldName("name"); name != nil {
				handlers[name.Content(src)] = stmt
			}
		}
	}
	forEachDeclarator(root, src, func(name string, value *sitter.Node) {
		if isFunctionNode(value) {
			if _, exists := handlers[name]; !exists {
				handlers[name] = value
			}
		}
	})
	return handlers
}

func forEachDeclarator(root *sitter.Node, src []byte, fn func(name string, value *sitter.Node)) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := unwrapStatement(root.NamedChild(i))
		if stmt.Type() != jsLexicalDeclaration && stmt.Type() != jsVariableDeclaration {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			decl := stmt.NamedChild(j)
			if decl.Type() != jsVariableDeclarator {
				continue
			}
			name := decl.ChildByFieldName("name")
			value := decl.ChildByFieldName("value")
			if name == nil || value == nil || name.Type() != jsIdentifier {
				continue
			}
			fn(name.Content(src), value)
		}
	}
}

func walkNodes(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkNodes(node.NamedChild(i), visit)
	}
}

func (a *Analyzer) parseRouteCall(call *sitter.Node, src []byte, b binding, handlers map[string]*sitter.Node) *Route {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != jsMemberExpression {
		return nil
	}
	object := fn.ChildByFieldName("object")
	property := fn.ChildByFieldName("property")
	if object == nil || property == nil || object.Type() != jsIdentifier {
		return nil
	}
	if !b.tracks(object.Content(src)) {
		return nil
	}

	method := strings.ToLower(property.Content(src))
	if !a.isHTTPMethod(method) {
		return nil
	}

	args := namedArgs(call)
	if len(args) < 2 {
		return nil
	}

	path, ok := stringLiteral(args[0], src)
	if !ok {
		a.logger.Debug("skipping registration with non-literal path",
			zap.String("method", method),
			zap.String("path", args[0].Content(src)))
		return nil
	}
	if isWildcardPath(path) {
		a.logger.Debug("skipping wildcard registration",
			zap.String("method", method),
			zap.String("path", path))
		return nil
	}

	handler := args[len(args)-1]
	if handler.Type() == jsIdentifier {
		if decl, exists := handlers[handler.Content(src)]; exists {
			handler = decl
		}
	}

	var info HandlerInfo
	if isFunctionNode(handler) {
		reqName, resName := handlerParams(handler, src)
		info = a.analyzeHandler(handlerText(handler, src), reqName, resName)
	} else {
		info = a.analyzeHandler("", "req", "res")
	}

	route := &Route{
		Method:      method,
		Path:        convertPath(path),
		Parameters:  a.extractPathParameters(path),
		RequestBody: info.RequestBody,
		Responses:   info.Responses,
	}
	route.Parameters = append(route.Parameters, info.QueryParameters...)

	a.logger.Debug("route",
		zap.String("method", strings.ToUpper(route.Method)),
		zap.String("path", route.Path),
		zap.Int("params", len(route.Parameters)),
		zap.Int("responses", len(route.Responses)))

	return route
}

var pathParamPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)(\([^)]*\))?\??`)

// convertPath rewrites :name segments into {name} placeholders.
func convertPath(path string) string {
	converted := pathParamPattern.ReplaceAllString(path, "{$1}")
	if !strings.HasPrefix(converted, "/") {
		converted = "/" + converted
	}
	return converted
}

func (a *Analyzer) extractPathParameters(path string) []Parameter {
	params := []Parameter{}
	seen := make(map[string]bool)
	for _, match := range pathParamPattern.FindAllStringSubmatch(path, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		params = append(params, Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Type:     a.pathParamType(name),
		})
	}
	return params
}
