package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ErrParse is returned when the source file cannot be turned into a clean
// syntax tree. The accompanying Analysis is empty but valid.
var ErrParse = errors.New("parse source")

// Node types of the tree-sitter JavaScript grammar used by the collector.
const (
	jsProgram             = "program"
	jsLexicalDeclaration  = "lexical_declaration"
	jsVariableDeclaration = "variable_declaration"
	jsVariableDeclarator  = "variable_declarator"
	jsExportStatement     = "export_statement"
	jsExpressionStatement = "expression_statement"
	jsCallExpression      = "call_expression"
	jsMemberExpression    = "member_expression"
	jsIdentifier          = "identifier"
	jsString              = "string"
	jsTemplateString      = "template_string"
	jsTemplateSubst       = "template_substitution"
	jsArrowFunction       = "arrow_function"
	jsFunction            = "function"
	jsFunctionExpression  = "function_expression"
	jsFunctionDeclaration = "function_declaration"
	jsAssignmentPattern   = "assignment_pattern"
	jsComment             = "comment"
)

type sourceFile struct {
	src  []byte
	tree *sitter.Tree
}

func (f *sourceFile) root() *sitter.Node {
	return f.tree.RootNode()
}

func (f *sourceFile) Close() {
	f.tree.Close()
}

func (a *Analyzer) parseSource(ctx context.Context, src []byte) (*sourceFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := tree.RootNode()
	if root == nil || root.Type() != jsProgram {
		tree.Close()
		return nil, fmt.Errorf("%w: unexpected root node", ErrParse)
	}
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, fmt.Errorf("%w: syntax error near line %d", ErrParse, line)
	}

	return &sourceFile{src: src, tree: tree}, nil
}

func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			return firstErrorLine(child)
		}
	}
	return int(node.StartPoint().Row) + 1
}

// handlerText slices the original source spanning node.
func handlerText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}

// namedArgs returns the argument expressions of a call, skipping comments.
func namedArgs(call *sitter.Node) []*sitter.Node {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var args []*sitter.Node
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		arg := argsNode.NamedChild(i)
		if arg == nil || arg.Type() == jsComment {
			continue
		}
		args = append(args, arg)
	}
	return args
}

// stringLiteral returns the static value of a string or substitution-free
// template literal.
func stringLiteral(node *sitter.Node, src []byte) (string, bool) {
	switch node.Type() {
	case jsString:
		return strings.Trim(node.Content(src), `"'`), true
	case jsTemplateString:
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if node.NamedChild(i).Type() == jsTemplateSubst {
				return "", false
			}
		}
		return strings.Trim(node.Content(src), "`"), true
	}
	return "", false
}

// unwrapStatement returns the declaration inside an export statement.
func unwrapStatement(node *sitter.Node) *sitter.Node {
	if node.Type() != jsExportStatement {
		return node
	}
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return decl
	}
	return node
}

// handlerParams returns the names of the first two formal parameters of a
// function node.
func handlerParams(fn *sitter.Node, src []byte) (string, string) {
	reqName, resName := "req", "res"

	if single := fn.ChildByFieldName("parameter"); single != nil {
		return single.Content(src), resName
	}

	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return reqName, resName
	}

	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case jsIdentifier:
			names = append(names, p.Content(src))
		case jsAssignmentPattern:
			if left := p.ChildByFieldName("left"); left != nil && left.Type() == jsIdentifier {
				names = append(names, left.Content(src))
			} else {
				names = append(names, "")
			}
		case jsComment:
		default:
			names = append(names, "")
		}
	}
	if len(names) > 0 && names[0] != "" {
		reqName = names[0]
	}
	if len(names) > 1 && names[1] != "" {
		resName = names[1]
	}
	return reqName, resName
}
