// Package fill implements the placeholder engine: token detection over
// concatenated run text, run-preserving substitution, composite clause
// expansion, and structural repetition of model tables and rows.
package fill

import (
	"regexp"
	"strings"
)

// tokenPattern matches a placeholder key wrapped in single or double curly
// braces, with optional whitespace inside the braces. The double-brace
// alternative comes first so {{key}} is never read as {key} plus stray
// braces.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}|\{\s*([A-Za-z0-9_]+)\s*\}`)

// tokenKey returns the key captured by either alternative.
func tokenKey(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// Keys returns the placeholder keys found in text, in order of appearance.
func Keys(text string) []string {
	var keys []string
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		keys = append(keys, tokenKey(m))
	}
	return keys
}

// ExactToken reports whether the trimmed text consists of exactly one
// placeholder token, returning its key. Shapes whose whole content is one
// token are image-slot candidates; a token embedded among other text never
// is.
func ExactToken(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	loc := tokenPattern.FindStringSubmatchIndex(trimmed)
	if loc == nil || loc[0] != 0 || loc[1] != len(trimmed) {
		return "", false
	}
	m := tokenPattern.FindStringSubmatch(trimmed)
	return tokenKey(m), true
}

// ReplaceTokens substitutes every token whose key is bound in values,
// leaving unbound tokens in place. The boolean reports whether anything
// changed.
func ReplaceTokens(text string, values map[string]string) (string, bool) {
	changed := false
	out := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)
		if v, ok := values[tokenKey(m)]; ok {
			changed = true
			return v
		}
		return token
	})
	return out, changed
}

// HasKey reports whether text contains a token with the given key.
func HasKey(text, key string) bool {
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if tokenKey(m) == key {
			return true
		}
	}
	return false
}
