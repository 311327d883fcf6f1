package workflow

import (
	"errors"

	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTargetGp means the requested gross-profit percentage is
	// unreachable (>= 100 implies infinite selling).
	ErrInvalidTargetGp = errors.New("target GP percentage cannot be 100% or higher")

	// ErrEmptySelection means no selected group carries selling value to
	// distribute against, so the allocation is undefined.
	ErrEmptySelection = errors.New("no selected groups with selling value to distribute across")
)

// DistributeGpAdjustment moves the whole quote to the target gross-profit
// percentage by adjusting selling prices inside the selected groups only.
//
// The required selling S' = C / (1 - g/100) is computed over the whole
// quote; the difference to current selling is then split across the
// selected groups proportionally to their share of the SELECTED selling
// (a lone selected group absorbs everything), and inside each group across
// items by their share of that group's selling. Items are then fully
// recalculated and all rollups recomputed.
//
// On ErrInvalidTargetGp / ErrEmptySelection the quote pricing is unchanged.
func DistributeGpAdjustment(quote *models.Quote, targetGpPercent decimal.Decimal, selectedGroupIds []int) error {
	if targetGpPercent.GreaterThanOrEqual(decimalOneHundred) {
		return ErrInvalidTargetGp
	}
	if len(selectedGroupIds) == 0 {
		return ErrEmptySelection
	}

	CalculateQuoteTotals(quote)

	selected := make(map[int]bool, len(selectedGroupIds))
	for _, id := range selectedGroupIds {
		selected[id] = true
	}

	selectedTotalSelling := decimal.Zero
	for i := range quote.Groups {
		if selected[quote.Groups[i].ID] {
			selectedTotalSelling = selectedTotalSelling.Add(quote.Groups[i].TotalSelling)
		}
	}
	if !selectedTotalSelling.IsPositive() {
		return ErrEmptySelection
	}

	one := decimal.NewFromInt(1)
	targetTotalSelling := quote.TotalCost.Div(one.Sub(targetGpPercent.Div(decimalOneHundred)))
	adjustmentAmount := targetTotalSelling.Sub(quote.TotalSelling)

	for i := range quote.Groups {
		group := &quote.Groups[i]
		if !selected[group.ID] {
			continue
		}

		groupProportion := group.TotalSelling.Div(selectedTotalSelling)
		groupAdjustment := adjustmentAmount.Mul(groupProportion)

		groupItemsSelling := decimal.Zero
		for j := range group.Items {
			groupItemsSelling = groupItemsSelling.Add(group.Items[j].TotalSelling)
		}
		if !groupItemsSelling.IsPositive() {
			continue
		}

		for j := range group.Items {
			item := &group.Items[j]

			itemProportion := item.TotalSelling.Div(groupItemsSelling)
			itemAdjustment := groupAdjustment.Mul(itemProportion)

			newTotalSelling := item.TotalSelling.Add(itemAdjustment)
			var newUnitSelling decimal.Decimal
			if item.Quantity.IsPositive() {
				newUnitSelling = newTotalSelling.Div(item.Quantity)
			}

			item.TotalSelling = quantizeCurrency(newTotalSelling)
			item.UnitSelling = quantizeCurrency(newUnitSelling)

			// The adjusted selling becomes the new margin ground truth;
			// the full item recalculation below re-derives the rest.
			if item.UnitCost.IsPositive() {
				newMarginPercent := newUnitSelling.Sub(item.UnitCost).Div(item.UnitCost).Mul(decimalOneHundred)
				item.MarginPercent = quantizePercent(newMarginPercent)
			}

			CalculateItemPricing(item)
		}
	}

	CalculateQuoteTotals(quote)

	return nil
}
