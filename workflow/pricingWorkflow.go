package workflow

import (
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/shopspring/decimal"
)

// Money is quantized to 2 decimal places, percentages to 1, both half-up,
// matching the rest of the pricing surface.

var decimalOneHundred = decimal.NewFromInt(100)

func quantizeCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func quantizePercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}

// CalculateItemPricing recomputes every derived money field on an item from
// its five ground-truth inputs. Idempotent: the derived fields are outputs
// only and never feed back into the calculation.
func CalculateItemPricing(item *models.QuoteItem) {
	one := decimal.NewFromInt(1)

	totalCost := item.Quantity.Mul(item.UnitCost)

	marginMultiplier := one.Add(item.MarginPercent.Div(decimalOneHundred))
	unitSellingBeforeDiscount := item.UnitCost.Mul(marginMultiplier)

	discountMultiplier := one.Sub(item.DiscountPercent.Div(decimalOneHundred))
	unitSelling := unitSellingBeforeDiscount.Mul(discountMultiplier)

	totalSelling := item.Quantity.Mul(unitSelling)

	commissionAmount := totalSelling.Mul(item.CommissionPercent.Div(decimalOneHundred))
	netSelling := totalSelling.Sub(commissionAmount)

	var actualMarginPercent decimal.Decimal
	if item.UnitCost.IsPositive() {
		actualMarginPercent = unitSelling.Sub(item.UnitCost).Div(item.UnitCost).Mul(decimalOneHundred)
	}

	item.TotalCost = quantizeCurrency(totalCost)
	item.UnitSelling = quantizeCurrency(unitSelling)
	item.TotalSelling = quantizeCurrency(totalSelling)
	item.CommissionAmount = quantizeCurrency(commissionAmount)
	item.NetSelling = quantizeCurrency(netSelling)
	item.ActualMarginPercent = quantizePercent(actualMarginPercent)
}

// CalculateGroupTotals recalculates every item in the group, then derives
// the group aggregates. Group margin and GP come from aggregate cost and
// selling, never from averaging item percentages: percentage averages skew
// whenever item sizes differ.
func CalculateGroupTotals(group *models.QuoteGroup) {
	totalCost := decimal.Zero
	totalSelling := decimal.Zero
	totalCommission := decimal.Zero
	totalNetSelling := decimal.Zero

	for i := range group.Items {
		CalculateItemPricing(&group.Items[i])

		totalCost = totalCost.Add(group.Items[i].TotalCost)
		totalSelling = totalSelling.Add(group.Items[i].TotalSelling)
		totalCommission = totalCommission.Add(group.Items[i].CommissionAmount)
		totalNetSelling = totalNetSelling.Add(group.Items[i].NetSelling)
	}

	var marginPercent decimal.Decimal
	if totalCost.IsPositive() {
		marginPercent = totalSelling.Sub(totalCost).Div(totalCost).Mul(decimalOneHundred)
	}

	var gpPercent decimal.Decimal
	if totalSelling.IsPositive() {
		gpPercent = totalSelling.Sub(totalCost).Div(totalSelling).Mul(decimalOneHundred)
	}

	group.TotalCost = quantizeCurrency(totalCost)
	group.TotalSelling = quantizeCurrency(totalSelling)
	group.TotalCommission = quantizeCurrency(totalCommission)
	group.TotalNetSelling = quantizeCurrency(totalNetSelling)
	group.MarginPercent = quantizePercent(marginPercent)
	group.GpPercent = quantizePercent(gpPercent)
}

// CalculateQuoteTotals recalculates the full tree bottom-up, in the given
// group/item order, so repeated runs on unchanged input are reproducible.
func CalculateQuoteTotals(quote *models.Quote) {
	totalCost := decimal.Zero
	totalSelling := decimal.Zero
	totalCommission := decimal.Zero
	totalNetSelling := decimal.Zero

	for i := range quote.Groups {
		CalculateGroupTotals(&quote.Groups[i])

		totalCost = totalCost.Add(quote.Groups[i].TotalCost)
		totalSelling = totalSelling.Add(quote.Groups[i].TotalSelling)
		totalCommission = totalCommission.Add(quote.Groups[i].TotalCommission)
		totalNetSelling = totalNetSelling.Add(quote.Groups[i].TotalNetSelling)
	}

	grossProfit := totalSelling.Sub(totalCost)

	var grossProfitPercent decimal.Decimal
	if totalSelling.IsPositive() {
		grossProfitPercent = grossProfit.Div(totalSelling).Mul(decimalOneHundred)
	}

	var markupPercent decimal.Decimal
	if totalCost.IsPositive() {
		markupPercent = grossProfit.Div(totalCost).Mul(decimalOneHundred)
	}

	quote.TotalCost = quantizeCurrency(totalCost)
	quote.TotalSelling = quantizeCurrency(totalSelling)
	quote.TotalCommission = quantizeCurrency(totalCommission)
	quote.TotalNetSelling = quantizeCurrency(totalNetSelling)
	quote.GrossProfit = quantizeCurrency(grossProfit)
	quote.GrossProfitPercent = quantizePercent(grossProfitPercent)
	quote.MarkupPercent = quantizePercent(markupPercent)
}
