package formula

import "github.com/shopspring/decimal"

// Constraints is the numeric-result policy configured on a stored formula.
// Rounding happens first, then the min/max clamps override the rounded value.
type Constraints struct {
	PrecisionDigits int32
	AlwaysRoundUp   bool
	Minimum         *decimal.Decimal
	Maximum         *decimal.Decimal
}

func (c Constraints) Apply(result decimal.Decimal) decimal.Decimal {
	if c.AlwaysRoundUp {
		result = result.Ceil()
	} else {
		result = result.Round(c.PrecisionDigits)
	}

	if c.Minimum != nil && result.LessThan(*c.Minimum) {
		result = *c.Minimum
	}
	if c.Maximum != nil && result.GreaterThan(*c.Maximum) {
		result = *c.Maximum
	}

	return result
}
