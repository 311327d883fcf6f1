package workflow

import (
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/shopspring/decimal"
)

// ApplyBulkMarginAdjustment overwrites the margin percentage on every item
// in the named group and recomputes the tree. An unknown group id is an
// explicit ErrorRecordNotFound, not a silent no-op.
func ApplyBulkMarginAdjustment(quote *models.Quote, groupId int, newMarginPercent decimal.Decimal) error {
	group := findGroup(quote, groupId)
	if group == nil {
		return utils.ErrorRecordNotFound
	}

	for i := range group.Items {
		group.Items[i].MarginPercent = newMarginPercent
		CalculateItemPricing(&group.Items[i])
	}

	CalculateQuoteTotals(quote)
	return nil
}

// ApplyBulkDiscountAdjustment overwrites the discount percentage on every
// item in the named group and recomputes the tree.
func ApplyBulkDiscountAdjustment(quote *models.Quote, groupId int, discountPercent decimal.Decimal) error {
	group := findGroup(quote, groupId)
	if group == nil {
		return utils.ErrorRecordNotFound
	}

	for i := range group.Items {
		group.Items[i].DiscountPercent = discountPercent
		CalculateItemPricing(&group.Items[i])
	}

	CalculateQuoteTotals(quote)
	return nil
}

func findGroup(quote *models.Quote, groupId int) *models.QuoteGroup {
	for i := range quote.Groups {
		if quote.Groups[i].ID == groupId {
			return &quote.Groups[i]
		}
	}
	return nil
}
