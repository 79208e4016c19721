package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// responseShape is one of the recognized response call forms, listed in
// precedence order.
type responseShape int

const (
	shapeStatusJSONExpr responseShape = iota // res.status(N).json(expr)
	shapeJSONExpr                            // res.json(expr)
	shapeStatusJSON                          // res.status(N).json()
	shapeJSON                                // res.json()
	shapeStatusSend                          // res.status(N).send() / .end()
	shapeSend                                // res.send()
	shapeSendStatus                          // res.sendStatus(N)
)

type responseCall struct {
	shape  responseShape
	offset int
	status string
	expr   string
	method string
}

// findResponseCalls locates every response call on the response object,
// classified by shape.
func findResponseCalls(text, resName string) []responseCall {
	res := `\b` + regexp.QuoteMeta(resName) + `\s*\.\s*`
	chained := regexp.MustCompile(res + `status\s*\(\s*(\d{3})\s*\)\s*\.\s*(json|send|end)\s*\(`)
	direct := regexp.MustCompile(res + `(json|send)\s*\(`)
	sendStatus := regexp.MustCompile(res + `sendStatus\s*\(\s*(\d{3})\s*\)`)

	var calls []responseCall

	for _, m := range chained.FindAllStringSubmatchIndex(text, -1) {
		status := text[m[2]:m[3]]
		method := text[m[4]:m[5]]
		expr, _ := callArgs(text, m[1]-1)
		call := responseCall{offset: m[0], status: status, expr: expr, method: method}
		switch {
		case method == "json" && expr != "":
			call.shape = shapeStatusJSONExpr
		case method == "json":
			call.shape = shapeStatusJSON
		default:
			call.shape = shapeStatusSend
		}
		calls = append(calls, call)
	}

	for _, m := range direct.FindAllStringSubmatchIndex(text, -1) {
		method := text[m[2]:m[3]]
		expr, _ := callArgs(text, m[1]-1)
		call := responseCall{offset: m[0], status: "200", expr: expr, method: method}
		switch {
		case method == "json" && expr != "":
			call.shape = shapeJSONExpr
		case method == "json":
			call.shape = shapeJSON
		default:
			call.shape = shapeSend
		}
		calls = append(calls, call)
	}

	for _, m := range sendStatus.FindAllStringSubmatchIndex(text, -1) {
		calls = append(calls, responseCall{
			shape:  shapeSendStatus,
			offset: m[0],
			status: text[m[2]:m[3]],
		})
	}

	sort.SliceStable(calls, func(i, j int) bool {
		if calls[i].shape != calls[j].shape {
			return calls[i].shape < calls[j].shape
		}
		return calls[i].offset < calls[j].offset
	})
	return calls
}

// detectResponses registers a response for every recognized call. Shapes are
// applied in precedence order; the first entry for a status code wins.
func (a *Analyzer) detectResponses(text string, info *HandlerInfo) {
	for _, call := range findResponseCalls(text, info.ResponseName) {
		info.addResponse(call.status, a.responseSchema(call, text))
	}
}

func (a *Analyzer) responseSchema(call responseCall, text string) *Schema {
	switch call.shape {
	case shapeStatusJSONExpr, shapeJSONExpr:
		return a.inferSchema(call.expr, text)
	case shapeStatusJSON, shapeJSON:
		return primitive(TypeObject)
	case shapeSend, shapeStatusSend:
		if call.method == "send" && call.expr != "" {
			return a.inferSchema(call.expr, text)
		}
	}
	return nil
}

var (
	tryMarker     = regexp.MustCompile(`\btry\s*\{`)
	catchMarker   = regexp.MustCompile(`\bcatch\s*(?:\([^)]*\))?\s*\{`)
	statusPattern = regexp.MustCompile(`\.\s*(?:status|sendStatus)\s*\(\s*(\d{3})\s*\)`)
)

// detectErrorResponses registers the status codes set inside catch blocks
// with the generic {message} payload. A catch block without an explicit code
// implies 500.
func (a *Analyzer) detectErrorResponses(text string, info *HandlerInfo) {
	if !tryMarker.MatchString(text) || !catchMarker.MatchString(text) {
		return
	}
	for _, loc := range catchMarker.FindAllStringIndex(text, -1) {
		body, end := block(text, loc[1]-1)
		if end < 0 {
			continue
		}
		matches := statusPattern.FindAllStringSubmatch(body, -1)
		for _, m := range matches {
			info.addResponse(m[1], messageSchema())
		}
		if len(matches) == 0 {
			info.addResponse("500", messageSchema())
		}
	}
}

var (
	ifPattern       = regexp.MustCompile(`\bif\s*\(`)
	notFoundPattern = regexp.MustCompile(`\.\s*status\s*\(\s*404\s*\)\s*\.\s*json\s*\(`)
	notFoundStatus  = regexp.MustCompile(`\.\s*(?:status|sendStatus)\s*\(\s*404\s*\)`)
)

// detectNotFound looks for `if (!x) { ... status(404) ... }` guards,
// including single-statement early returns. It runs before detectResponses
// so a guard without a JSON payload still documents {message}.
func (a *Analyzer) detectNotFound(text string, info *HandlerInfo) {
	if info.Responses.Has("404") {
		return
	}
	for _, loc := range ifPattern.FindAllStringIndex(text, -1) {
		open := loc[1] - 1
		end := matchingClose(text, open)
		if end < 0 {
			continue
		}
		cond := strings.TrimSpace(text[open+1 : end])
		if !strings.HasPrefix(cond, "!") || strings.HasPrefix(cond, "!=") {
			continue
		}

		body := guardedBody(text, end+1)
		if !notFoundStatus.MatchString(body) {
			continue
		}

		schema := messageSchema()
		if m := notFoundPattern.FindStringSubmatchIndex(body); m != nil {
			if expr, ok := callArgs(body, m[1]-1); ok && expr != "" {
				schema = a.inferSchema(expr, text)
			}
		}
		info.addResponse("404", schema)
		return
	}
}

// guardedBody returns the statement or block following an if condition.
func guardedBody(text string, from int) string {
	rest := strings.TrimLeft(text[from:], " \t\r\n")
	if strings.HasPrefix(rest, "{") {
		end := matchingClose(rest, 0)
		if end < 0 {
			return rest
		}
		return rest[:end+1]
	}
	parts := splitTopLevel(rest, ';')
	stmt := parts[0]
	if nl := strings.IndexByte(stmt, '\n'); nl >= 0 && len(parts) == 1 {
		stmt = stmt[:nl]
	}
	return stmt
}
