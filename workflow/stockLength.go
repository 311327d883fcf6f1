package workflow

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrZeroPieceVolume = errors.New("timber piece volume is zero")
	ErrZeroStockLength = errors.New("stock length must be positive")

	decimalOneThousand = decimal.NewFromInt(1000)
)

// RoundUpToStockLength picks the stock length that covers the required length
// with the least waste. Waste is measured as a percentage of the material
// supplied; when two lengths waste the same share, the one needing fewer
// pieces wins. Non-positive stock lengths are skipped. With no usable stock
// length the required length itself is returned as a single piece.
func RoundUpToStockLength(requiredLength decimal.Decimal, stockLengths []decimal.Decimal) (decimal.Decimal, int) {
	bestLength := decimal.Zero
	bestPieces := 0
	bestWaste := decimal.Zero
	found := false

	for _, stockLength := range stockLengths {
		if !stockLength.IsPositive() {
			continue
		}
		pieces := int(requiredLength.Div(stockLength).Ceil().IntPart())
		if pieces < 1 {
			pieces = 1
		}
		supplied := stockLength.Mul(decimal.NewFromInt(int64(pieces)))
		waste := supplied.Sub(requiredLength)
		wastePercent := decimal.Zero
		if supplied.IsPositive() {
			wastePercent = waste.Div(supplied).Mul(decimalOneHundred)
		}

		if !found || wastePercent.LessThan(bestWaste) ||
			(wastePercent.Equal(bestWaste) && pieces < bestPieces) {
			bestLength = stockLength
			bestPieces = pieces
			bestWaste = wastePercent
			found = true
		}
	}

	if !found {
		return requiredLength, 1
	}
	return bestLength, bestPieces
}

// CalculateWasteFactor inflates a base quantity by a waste percentage and
// quantizes the result to two decimal places.
func CalculateWasteFactor(baseQuantity, wastePercent decimal.Decimal) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Add(wastePercent.Div(decimalOneHundred))
	return quantizeCurrency(baseQuantity.Mul(multiplier))
}

// ConvertCubicMetersToPieces converts a timber quantity in cubic meters to
// pieces given the piece cross-section in millimeters and its length in
// meters. The piece count is not rounded; callers decide how to round.
func ConvertCubicMetersToPieces(m3Quantity decimal.Decimal, thicknessMm, widthMm int, lengthM decimal.Decimal) (decimal.Decimal, error) {
	pieceVolume := decimal.NewFromInt(int64(thicknessMm)).Div(decimalOneThousand).
		Mul(decimal.NewFromInt(int64(widthMm)).Div(decimalOneThousand)).
		Mul(lengthM)
	if pieceVolume.IsZero() {
		return decimal.Zero, ErrZeroPieceVolume
	}
	return m3Quantity.Div(pieceVolume), nil
}

// ConvertLengthToStockPieces converts a total run length into whole stock
// pieces of a fixed length, rounding up so the cut list is always covered.
func ConvertLengthToStockPieces(totalLengthM, stockLengthM decimal.Decimal) (int, error) {
	if !stockLengthM.IsPositive() {
		return 0, ErrZeroStockLength
	}
	return int(totalLengthM.Div(stockLengthM).Ceil().IntPart()), nil
}
