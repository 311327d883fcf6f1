package formula

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func (n *numberNode) eval() (decimal.Decimal, error) {
	return n.value, nil
}

func (n *unaryNode) eval() (decimal.Decimal, error) {
	v, err := n.operand.eval()
	if err != nil {
		return decimal.Zero, err
	}
	return v.Neg(), nil
}

func (n *binaryNode) eval() (decimal.Decimal, error) {
	left, err := n.left.eval()
	if err != nil {
		return decimal.Zero, err
	}
	right, err := n.right.eval()
	if err != nil {
		return decimal.Zero, err
	}
	switch n.op {
	case tokenPlus:
		return left.Add(right), nil
	case tokenMinus:
		return left.Sub(right), nil
	case tokenStar:
		return left.Mul(right), nil
	case tokenSlash:
		if right.IsZero() {
			return decimal.Zero, &ArithmeticError{Detail: "division by zero"}
		}
		return left.Div(right), nil
	default:
		return decimal.Zero, &ArithmeticError{Detail: "unsupported operator"}
	}
}

func (n *callNode) eval() (decimal.Decimal, error) {
	args := make([]decimal.Decimal, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval()
		if err != nil {
			return decimal.Zero, err
		}
		args[i] = v
	}
	switch n.name {
	case "ROUNDUP":
		digits, err := wholeDigits(args[1])
		if err != nil {
			return decimal.Zero, err
		}
		return args[0].Shift(digits).Ceil().Shift(-digits), nil
	case "ROUNDDOWN":
		digits, err := wholeDigits(args[1])
		if err != nil {
			return decimal.Zero, err
		}
		return args[0].Shift(digits).Floor().Shift(-digits), nil
	case "ROUND":
		digits, err := wholeDigits(args[1])
		if err != nil {
			return decimal.Zero, err
		}
		return args[0].Round(digits), nil
	case "CEILING":
		return args[0].Ceil(), nil
	case "FLOOR":
		return args[0].Floor(), nil
	case "ABS":
		return args[0].Abs(), nil
	case "MAX":
		return decimal.Max(args[0], args[1]), nil
	case "MIN":
		return decimal.Min(args[0], args[1]), nil
	default:
		return decimal.Zero, &UnknownFunctionError{Name: n.name}
	}
}

func wholeDigits(d decimal.Decimal) (int32, error) {
	if !d.Equal(d.Truncate(0)) || d.IsNegative() {
		return 0, &ArithmeticError{Detail: fmt.Sprintf("digit count must be a non-negative integer, got %s", d)}
	}
	return int32(d.IntPart()), nil
}
