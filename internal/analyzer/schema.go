package analyzer

import (
	"regexp"
	"strings"
)

// DomainConvention seeds the properties of objects recognized as instances
// of Model.
type DomainConvention struct {
	Model  string
	Fields []ConventionField
}

type ConventionField struct {
	Name string
	Type string
}

var defaultConventions = []DomainConvention{
	{Model: "Todo", Fields: []ConventionField{
		{Name: "_id", Type: TypeString},
		{Name: "title", Type: TypeString},
		{Name: "completed", Type: TypeBoolean},
	}},
	{Model: "User", Fields: []ConventionField{
		{Name: "_id", Type: TypeString},
		{Name: "name", Type: TypeString},
		{Name: "email", Type: TypeString},
	}},
	{Model: "Post", Fields: []ConventionField{
		{Name: "_id", Type: TypeString},
		{Name: "title", Type: TypeString},
		{Name: "content", Type: TypeString},
		{Name: "published", Type: TypeBoolean},
	}},
	{Model: "Product", Fields: []ConventionField{
		{Name: "_id", Type: TypeString},
		{Name: "name", Type: TypeString},
		{Name: "price", Type: TypeInteger},
	}},
}

// Seed used for objects whose model matches no convention.
var genericFields = []ConventionField{{Name: "_id", Type: TypeString}}

// schemaContext is the evidence a schema rule can inspect.
type schemaContext struct {
	expr    string
	handler string
}

// schemaRule contributes a schema when its evidence is present.
type schemaRule struct {
	name  string
	apply func(a *Analyzer, c schemaContext) (*Schema, bool)
}

// schemaRules returns the rule table in precedence order; the first match
// decides the schema.
func (a *Analyzer) schemaRules() []schemaRule {
	return []schemaRule{
		{name: "literal", apply: literalRule},
		{name: "array-literal", apply: arrayLiteralRule},
		{name: "object-literal", apply: objectLiteralRule},
		{name: "collection", apply: collectionRule},
		{name: "single-object", apply: singleObjectRule},
		{name: "message", apply: messageRule},
	}
}

// inferSchema classifies a response expression using the handler text as
// supporting evidence. It never fails; unknown shapes are opaque objects.
func (a *Analyzer) inferSchema(expr, handler string) *Schema {
	c := schemaContext{expr: strings.TrimSpace(expr), handler: handler}
	for _, rule := range a.schemaRules() {
		if schema, ok := rule.apply(a, c); ok {
			return schema
		}
	}
	return primitive(TypeObject)
}

var numberLiteral = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

func literalRule(_ *Analyzer, c schemaContext) (*Schema, bool) {
	expr := c.expr
	switch {
	case expr == "":
		return nil, false
	case expr == "true" || expr == "false":
		return primitive(TypeBoolean), true
	case numberLiteral.MatchString(expr):
		if strings.Contains(expr, ".") {
			return primitive(TypeNumber), true
		}
		return primitive(TypeInteger), true
	case expr[0] == '\'' || expr[0] == '"' || expr[0] == '`':
		if skipString(expr, 0) == len(expr)-1 {
			return primitive(TypeString), true
		}
	}
	return nil, false
}

func arrayLiteralRule(a *Analyzer, c schemaContext) (*Schema, bool) {
	if !strings.HasPrefix(c.expr, "[") || matchingClose(c.expr, 0) != len(c.expr)-1 {
		return nil, false
	}
	first := strings.TrimSpace(splitTopLevel(c.expr[1:len(c.expr)-1], ',')[0])
	if first == "" {
		return &Schema{Type: TypeArray, Items: primitive(TypeObject)}, true
	}
	return &Schema{Type: TypeArray, Items: a.inferSchema(first, c.handler)}, true
}

// objectLiteralRule describes `{ key: value, ... }`. A message key is always
// a string.
func objectLiteralRule(a *Analyzer, c schemaContext) (*Schema, bool) {
	entries, ok := objectLiteralEntries(c.expr)
	if !ok {
		return nil, false
	}
	schema := objectSchema()
	for _, entry := range entries {
		schema.addProperty(entry.Key, a.valueSchema(entry, c.handler))
	}
	return schema, true
}

func (a *Analyzer) valueSchema(entry objectEntry, handler string) *Schema {
	if entry.Key == "message" || entry.Key == "error" {
		return primitive(TypeString)
	}
	c := schemaContext{expr: entry.Value, handler: handler}
	for _, rule := range []func(*Analyzer, schemaContext) (*Schema, bool){
		literalRule, arrayLiteralRule, objectLiteralRule, collectionRule, singleObjectRule,
	} {
		if schema, ok := rule(a, c); ok {
			return schema
		}
	}
	return primitive(inferType(entry.Key, handler))
}

var (
	findAllCall = regexp.MustCompile(`^(?:await\s+)?([A-Z][\w$]*)\.(?:find|findAll|findMany)\s*\(`)
	arrayChain  = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*\.\s*(?:map|filter|slice|sort|reverse|concat)\s*\(`)
)

// collectionRule recognizes find-all calls and plural identifiers, also when
// the identifier heads an array-preserving chain such as `items.map(...)`.
func collectionRule(a *Analyzer, c schemaContext) (*Schema, bool) {
	if m := findAllCall.FindStringSubmatch(c.expr); m != nil {
		return &Schema{Type: TypeArray, Items: a.modelObject(m[1], c.handler)}, true
	}
	ident := c.expr
	if m := arrayChain.FindStringSubmatch(c.expr); m != nil {
		ident = m[1]
	}
	if !isIdentifier(ident) {
		return nil, false
	}
	if model := assignedModel(ident, c.handler, `find|findAll|findMany`); model != "" {
		return &Schema{Type: TypeArray, Items: a.modelObject(model, c.handler)}, true
	}
	if isPlural(ident) {
		return &Schema{Type: TypeArray, Items: a.modelObject(singular(ident), c.handler)}, true
	}
	return nil, false
}

var singleCall = regexp.MustCompile(`^(?:await\s+)?(?:new\s+([A-Z][\w$]*)\s*\(|([A-Z][\w$]*)\.(?:findById|findOne|create|findByIdAndUpdate|findOneAndUpdate|findByIdAndDelete|findOneAndDelete)\s*\()`)

// singleObjectRule recognizes model instances: values built with `new Model`,
// fetched with findById-style calls, or named after a known model.
func singleObjectRule(a *Analyzer, c schemaContext) (*Schema, bool) {
	if m := singleCall.FindStringSubmatch(c.expr); m != nil {
		model := m[1]
		if model == "" {
			model = m[2]
		}
		return a.modelObject(model, c.handler), true
	}
	if !isIdentifier(c.expr) {
		return nil, false
	}
	if model := assignedModel(c.expr, c.handler, ""); model != "" {
		return a.modelObject(model, c.handler), true
	}
	if conv, ok := a.conventionFor(c.expr); ok {
		return a.modelObject(conv.Model, c.handler), true
	}
	return nil, false
}

func messageRule(_ *Analyzer, c schemaContext) (*Schema, bool) {
	if regexp.MustCompile(`\bmessage\s*:`).MatchString(c.expr) {
		return messageSchema(), true
	}
	return nil, false
}

// assignedModel finds `ident = [await] Model.<call>(` or `ident = new Model(`
// in handler and returns Model. When calls is empty any model call or
// construction counts.
func assignedModel(ident, handler, calls string) string {
	lhs := `\b` + regexp.QuoteMeta(ident) + `\s*=\s*(?:await\s+)?`
	if calls != "" {
		re := regexp.MustCompile(lhs + `([A-Z][\w$]*)\.(?:` + calls + `)\s*\(`)
		if m := re.FindStringSubmatch(handler); m != nil {
			return m[1]
		}
		return ""
	}
	re := regexp.MustCompile(lhs + `(?:new\s+([A-Z][\w$]*)\s*\(|([A-Z][\w$]*)\.[\w$]+\s*\()`)
	if m := re.FindStringSubmatch(handler); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	return ""
}

// modelObject seeds an object schema from the model's convention and refines
// it with fields the handler copies from the request body.
func (a *Analyzer) modelObject(model, handler string) *Schema {
	schema := objectSchema()
	fields := genericFields
	if conv, ok := a.conventionFor(model); ok {
		fields = conv.Fields
	}
	for _, f := range fields {
		schema.addProperty(f.Name, primitive(f.Type))
	}
	for _, name := range bodyAssignedFields(handler) {
		schema.addProperty(name, primitive(inferType(name, handler)))
	}
	return schema
}

// conventionFor matches a model or identifier name against the conventions,
// e.g. "todos", "newTodo" and "Todo" all match the Todo convention.
func (a *Analyzer) conventionFor(name string) (DomainConvention, bool) {
	lower := strings.ToLower(name)
	for _, conv := range a.conventions {
		if conv.Model != "" && strings.Contains(lower, strings.ToLower(conv.Model)) {
			return conv, true
		}
	}
	return DomainConvention{}, false
}

var (
	constructionCall = regexp.MustCompile(`(?:\bnew\s+[A-Z][\w$]*|\.(?:create|insertOne|update|updateOne|findByIdAndUpdate|findOneAndUpdate))\s*\(`)
	bodyDestructure  = regexp.MustCompile(`(?:const|let|var)\s*\{([^{}]*)\}\s*=\s*[\w$]+\.body\b`)
	bodyValue        = regexp.MustCompile(`^[\w$]+\.body\.([\w$]+)`)
	memberAssignment = regexp.MustCompile(`\b[a-z][\w$]*\.([A-Za-z_$][\w$]*)\s*=\s*[\w$]+\.body\.[\w$]+`)
)

// bodyAssignedFields returns keys assigned request-body values inside
// object-construction or update calls, and `obj.key = req.body.key` updates.
func bodyAssignedFields(handler string) []string {
	var bodyNames []string
	for _, m := range bodyDestructure.FindAllStringSubmatch(handler, -1) {
		for _, item := range strings.Split(m[1], ",") {
			if name := destructuredName(item); name != "" {
				bodyNames = append(bodyNames, name)
			}
		}
	}

	var fields []string
	add := func(name string) {
		if name != "" && !containsString(fields, name) {
			fields = append(fields, name)
		}
	}

	for _, loc := range constructionCall.FindAllStringIndex(handler, -1) {
		args, ok := callArgs(handler, loc[1]-1)
		if !ok {
			continue
		}
		for _, arg := range splitTopLevel(args, ',') {
			entries, ok := objectLiteralEntries(arg)
			if !ok {
				continue
			}
			for _, entry := range entries {
				switch {
				case bodyValue.MatchString(entry.Value):
					add(entry.Key)
				case containsString(bodyNames, entry.Value):
					add(entry.Key)
				}
			}
		}
	}

	for _, m := range memberAssignment.FindAllStringSubmatch(handler, -1) {
		if m[1] != "body" {
			add(m[1])
		}
	}
	return fields
}

func isPlural(name string) bool {
	lower := strings.ToLower(name)
	if len(lower) < 3 || !strings.HasSuffix(lower, "s") || strings.HasSuffix(lower, "ss") {
		return false
	}
	switch lower {
	case "status", "res", "this", "args", "params", "success", "progress", "process", "alias":
		return false
	}
	return true
}

func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "s"):
		return strings.TrimSuffix(name, "s")
	}
	return name
}
