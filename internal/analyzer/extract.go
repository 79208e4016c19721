package analyzer

import (
	"regexp"
	"strings"
)

// Body properties that are required by convention.
var requiredBodyNames = []string{"title", "name", "email"}

func (a *Analyzer) extractQueryAccess(text string, info *HandlerInfo) {
	for _, name := range memberAccesses(text, info.RequestName, "query") {
		info.addQueryParameter(a.queryParameter(name, text))
	}
}

func (a *Analyzer) extractQueryDestructuring(text string, info *HandlerInfo) {
	for _, name := range destructuredNames(text, info.RequestName, "query") {
		info.addQueryParameter(a.queryParameter(name, text))
	}
}

func (a *Analyzer) queryParameter(name, text string) Parameter {
	return Parameter{
		Name:     name,
		In:       "query",
		Required: hasAbsenceGuard(name, text),
		Type:     inferType(name, text),
	}
}

// extractBodyAccess builds a body schema from req.body.<prop> reads.
func (a *Analyzer) extractBodyAccess(text, reqName string) *RequestBody {
	return a.requestBody(memberAccesses(text, reqName, "body"), text)
}

// extractBodyDestructuring builds a body schema from `const {a, b} = req.body`.
func (a *Analyzer) extractBodyDestructuring(text, reqName string) *RequestBody {
	return a.requestBody(destructuredNames(text, reqName, "body"), text)
}

func (a *Analyzer) requestBody(names []string, text string) *RequestBody {
	if len(names) == 0 {
		return nil
	}
	body := &RequestBody{
		Properties: []Property{},
		Required:   []string{},
	}
	for _, name := range names {
		body.Properties = append(body.Properties, Property{
			Name:   name,
			Schema: primitive(inferType(name, text)),
		})
		if containsString(requiredBodyNames, name) || hasAbsenceGuard(name, text) {
			body.Required = append(body.Required, name)
		}
	}
	return body
}

// memberAccesses returns the distinct properties read as <req>.<source>.<prop>
// or <req>.<source>['prop'], in order of first appearance.
func memberAccesses(text, reqName, source string) []string {
	prefix := regexp.QuoteMeta(reqName) + `\.` + source
	re := regexp.MustCompile(`\b` + prefix + `(?:\.([A-Za-z_$][\w$]*)|\[\s*['"]([^'"]+)['"]\s*\])`)

	var names []string
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if name == "" {
			name = match[2]
		}
		if !containsString(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// destructuredNames returns the property names bound by
// `const { a, b: c, d = 1 } = <req>.<source>`.
func destructuredNames(text, reqName, source string) []string {
	re := regexp.MustCompile(`(?:const|let|var)\s*\{([^{}]*)\}\s*=\s*` +
		regexp.QuoteMeta(reqName) + `\.` + source + `\b`)

	var names []string
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		for _, item := range strings.Split(match[1], ",") {
			name := destructuredName(item)
			if name != "" && !containsString(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

func destructuredName(item string) string {
	item = strings.TrimSpace(item)
	if item == "" || strings.HasPrefix(item, "...") {
		return ""
	}
	if idx := strings.IndexAny(item, ":="); idx != -1 {
		item = strings.TrimSpace(item[:idx])
	}
	item = strings.Trim(item, `'"`)
	if !regexp.MustCompile(`^[A-Za-z_$][\w$]*$`).MatchString(item) {
		return ""
	}
	return item
}
