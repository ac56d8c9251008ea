package meta

import (
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnv replaces every ${env.KEY} in value with lookup(KEY). Expressions
// whose key is not an identifier are left verbatim; scanning resumes right
// after their prefix so that nested expressions still expand.
func expandEnv(value string, lookup func(string) string) string {
	var b strings.Builder
	for {
		idx := strings.Index(value, envPrefix)
		if idx < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:idx])
		rest := value[idx+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[idx:])
			return b.String()
		}
		key := rest[:end]
		if !isIdentifier(key) {
			b.WriteString(envPrefix)
			value = rest
			continue
		}
		b.WriteString(lookup(key))
		value = rest[end+1:]
	}
}

func isIdentifier(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
