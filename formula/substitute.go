package formula

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Placeholders look like {Total Length Eaves}: anything between braces
// except another brace. Substitution always consumes the whole {...} token,
// so one variable name can never partially match inside another.
var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ExtractVariables returns the unique placeholder names in the expression,
// in order of first appearance.
func ExtractVariables(expression string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(expression, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Substitute replaces every bound placeholder with its numeric value and
// returns the rewritten expression. Unbound placeholders are left in place
// for the caller to classify as missing or optional.
func Substitute(expression string, vars map[string]decimal.Decimal) string {
	return placeholderPattern.ReplaceAllStringFunc(expression, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := vars[name]
		if !ok {
			return token
		}
		return value.String()
	})
}
