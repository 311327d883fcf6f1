package formula

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy for formula validation and evaluation. Callers branch
// with errors.Is / errors.As; none of these are fatal to batch processing.
var (
	ErrEmptyExpression  = errors.New("formula expression is empty")
	ErrUnbalancedParens = errors.New("unbalanced parentheses in formula")
)

type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function: %s", e.Name)
}

type MissingVariableError struct {
	Names []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required variables: %s", strings.Join(e.Names, ", "))
}

type UnsafeExpressionError struct {
	Detail string
}

func (e *UnsafeExpressionError) Error() string {
	return fmt.Sprintf("unsafe construct in formula: %s", e.Detail)
}

type ArithmeticError struct {
	Detail string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error: %s", e.Detail)
}
