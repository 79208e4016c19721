package analyzer

import (
	"regexp"
	"strings"
)

var (
	booleanNames = []string{"completed", "active", "enabled", "published"}
	integerNames = []string{"age", "count", "price", "quantity"}
	numberNames  = []string{"rating", "score", "percentage"}
)

// inferType maps a property name and the text it is used in to a primitive
// schema type. Unknown names resolve to string.
func inferType(name, context string) string {
	switch {
	case containsString(booleanNames, name):
		return TypeBoolean
	case containsString(integerNames, name):
		return TypeInteger
	case containsString(numberNames, name):
		return TypeNumber
	}

	if context == "" || name == "" {
		return TypeString
	}
	return inferTypeFromContext(name, context)
}

func inferTypeFromContext(name, context string) string {
	// name may be reached through a member chain, e.g. parseInt(req.body.age)
	ref := `(?:[\w$]+\.)*` + regexp.QuoteMeta(name) + `\b`

	integerCoercion := regexp.MustCompile(`\b(?:parseInt|Number)\s*\(\s*` + ref)
	if integerCoercion.MatchString(context) {
		return TypeInteger
	}

	floatCoercion := regexp.MustCompile(`\bparseFloat\s*\(\s*` + ref)
	if floatCoercion.MatchString(context) {
		return TypeNumber
	}

	booleanLiteral := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*(?::|=|===|!==|==|!=)\s*(?:true|false)\b`)
	if booleanLiteral.MatchString(context) {
		return TypeBoolean
	}

	return TypeString
}

// pathParamType types a path placeholder. Id-like and count-like names are
// integers only when integer ids are enabled.
func (a *Analyzer) pathParamType(name string) string {
	if !a.integerIDs {
		return TypeString
	}
	lower := strings.ToLower(name)
	switch {
	case lower == "id", strings.HasSuffix(name, "Id"):
		return TypeInteger
	case lower == "page", lower == "limit", lower == "count":
		return TypeInteger
	}
	return TypeString
}

// hasAbsenceGuard reports whether text explicitly checks that name is
// missing, e.g. `if (!title)` or `req.body.title === undefined`.
func hasAbsenceGuard(name, text string) bool {
	ref := `(?:[\w$]+\.)*` + regexp.QuoteMeta(name) + `\b`
	patterns := []string{
		`!\s*` + ref + `(?:\s*[)|&]|\s*$)`,
		ref + `\s*===?\s*(?:undefined|null)\b`,
		`(?:undefined|null)\s*===?\s*` + ref,
		`typeof\s+` + ref + `\s*===?\s*['"]undefined['"]`,
	}
	for _, pattern := range patterns {
		if regexp.MustCompile(`(?m)` + pattern).MatchString(text) {
			return true
		}
	}
	return false
}
