package analyzer

import "strings"

// matchingClose returns the index of the bracket closing the one at open,
// skipping string and template literals. It returns -1 when unbalanced.
func matchingClose(text string, open int) int {
	if open < 0 || open >= len(text) {
		return -1
	}
	var stack []byte
	for i := open; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\'', '"', '`':
			i = skipString(text, i)
			if i < 0 {
				return -1
			}
		case '/':
			i = skipComment(text, i)
		case '(':
			stack = append(stack, ')')
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// skipString returns the index of the closing quote of the literal that
// starts at i.
func skipString(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return -1
}

// skipComment returns the index of the last byte of a comment starting at
// i, or i itself when no comment starts there.
func skipComment(text string, i int) int {
	if i+1 >= len(text) {
		return i
	}
	switch text[i+1] {
	case '/':
		if end := strings.IndexByte(text[i:], '\n'); end >= 0 {
			return i + end
		}
		return len(text) - 1
	case '*':
		if end := strings.Index(text[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 1
		}
		return len(text) - 1
	}
	return i
}

// callArgs returns the raw text between the parenthesis at open and its
// closing partner.
func callArgs(text string, open int) (string, bool) {
	end := matchingClose(text, open)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[open+1 : end]), true
}

// splitTopLevel splits s on sep where sep is not nested in brackets or
// string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\'', '"', '`':
			end := skipString(s, i)
			if end < 0 {
				i = len(s)
				continue
			}
			i = end
		case '/':
			i = skipComment(s, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// block returns the brace-delimited block starting at the first '{' at or
// after from.
func block(text string, from int) (string, int) {
	open := strings.IndexByte(text[from:], '{')
	if open < 0 {
		return "", -1
	}
	open += from
	end := matchingClose(text, open)
	if end < 0 {
		return "", -1
	}
	return text[open : end+1], end
}

type objectEntry struct {
	Key   string
	Value string
}

// objectLiteralEntries returns the top-level entries of an object literal.
// Shorthand entries carry the key as value. Spread and method entries are
// skipped.
func objectLiteralEntries(expr string) ([]objectEntry, bool) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "{") || matchingClose(expr, 0) != len(expr)-1 {
		return nil, false
	}
	var entries []objectEntry
	for _, part := range splitTopLevel(expr[1:len(expr)-1], ',') {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasPrefix(part, "...") {
			continue
		}
		kv := splitTopLevel(part, ':')
		if len(kv) == 1 {
			if isIdentifier(part) {
				entries = append(entries, objectEntry{Key: part, Value: part})
			}
			continue
		}
		key := strings.Trim(strings.TrimSpace(kv[0]), `'"`)
		if key == "" || strings.ContainsAny(key, "( ") {
			continue
		}
		entries = append(entries, objectEntry{
			Key:   key,
			Value: strings.TrimSpace(strings.Join(kv[1:], ":")),
		})
	}
	return entries, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
