// Package formula evaluates user-authored quantity formulas against named
// project variables. The grammar covers decimal literals, + - * /,
// parentheses and the spreadsheet functions ROUNDUP, ROUNDDOWN, ROUND,
// CEILING, FLOOR, ABS, MAX and MIN; placeholders are written {Variable Name}.
// Evaluation is pure and sandboxed: expressions are parsed into a restricted
// AST, never handed to a host evaluator.
package formula

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Result carries the evaluated value plus non-fatal warnings (for example an
// unbound optional placeholder that was treated as zero).
type Result struct {
	Value    decimal.Decimal
	Warnings []string
}

var functionNamePattern = regexp.MustCompile(`([A-Z_]+)\s*\(`)

// ValidateSyntax checks an expression at authoring time: non-empty, balanced
// parentheses, approved function names and a parseable arithmetic skeleton.
// It is pure; required-variable discovery is a separate ExtractVariables call.
func ValidateSyntax(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return ErrEmptyExpression
	}
	if strings.Count(expression, "(") != strings.Count(expression, ")") {
		return ErrUnbalancedParens
	}
	for _, m := range functionNamePattern.FindAllStringSubmatch(expression, -1) {
		if _, ok := approvedFunctions[m[1]]; !ok {
			return &UnknownFunctionError{Name: m[1]}
		}
	}
	// Parse with every placeholder bound to 1 so authoring-time validation
	// catches structural errors without needing real variable values.
	skeleton := placeholderPattern.ReplaceAllString(expression, "1")
	if _, err := parse(skeleton); err != nil {
		return err
	}
	return nil
}

// Evaluate substitutes vars into the expression, parses the result into the
// restricted AST and evaluates it. Placeholders left unbound fail with
// MissingVariableError when they are in required; otherwise they evaluate as
// zero and are reported as warnings.
func Evaluate(expression string, vars map[string]decimal.Decimal, required []string) (Result, error) {
	if strings.TrimSpace(expression) == "" {
		return Result{}, ErrEmptyExpression
	}

	substituted := Substitute(expression, vars)

	remaining := ExtractVariables(substituted)
	if len(remaining) > 0 {
		requiredSet := make(map[string]struct{}, len(required))
		for _, name := range required {
			requiredSet[name] = struct{}{}
		}
		var missing []string
		var warnings []string
		for _, name := range remaining {
			if _, ok := requiredSet[name]; ok {
				missing = append(missing, name)
			} else {
				warnings = append(warnings, fmt.Sprintf("optional variable %q not bound, treated as 0", name))
			}
		}
		if len(missing) > 0 {
			return Result{}, &MissingVariableError{Names: missing}
		}
		substituted = placeholderPattern.ReplaceAllString(substituted, "0")

		root, err := parse(substituted)
		if err != nil {
			return Result{}, err
		}
		value, err := root.eval()
		if err != nil {
			return Result{}, err
		}
		return Result{Value: value, Warnings: warnings}, nil
	}

	root, err := parse(substituted)
	if err != nil {
		return Result{}, err
	}
	value, err := root.eval()
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value}, nil
}
