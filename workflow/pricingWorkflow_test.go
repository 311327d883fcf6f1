package workflow

import (
	"errors"
	"testing"

	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testQuote() *models.Quote {
	return &models.Quote{
		QuoteNumber: "Q-2025-001",
		Groups: []models.QuoteGroup{
			{
				ID:        1,
				GroupName: "Roof Trusses",
				Items: []models.QuoteItem{
					{ID: 11, StockCode: "TIM-38x114", Quantity: dec("10"), UnitCost: dec("100"), MarginPercent: dec("25")},
					{ID: 12, StockCode: "TIM-38x76", Quantity: dec("40"), UnitCost: dec("25"), MarginPercent: dec("30")},
				},
			},
			{
				ID:        2,
				GroupName: "Sheeting",
				Items: []models.QuoteItem{
					{ID: 21, StockCode: "SHT-IBR-0.5", Quantity: dec("80"), UnitCost: dec("90"), MarginPercent: dec("20")},
				},
			},
		},
	}
}

func TestCalculateItemPricing(t *testing.T) {
	item := models.QuoteItem{
		Quantity:          dec("10"),
		UnitCost:          dec("100"),
		MarginPercent:     dec("25"),
		DiscountPercent:   dec("10"),
		CommissionPercent: dec("5"),
	}

	CalculateItemPricing(&item)

	if !item.UnitSelling.Equal(dec("112.5")) {
		t.Errorf("unit selling = %s, want 112.5", item.UnitSelling)
	}
	if !item.TotalCost.Equal(dec("1000")) {
		t.Errorf("total cost = %s, want 1000", item.TotalCost)
	}
	if !item.TotalSelling.Equal(dec("1125")) {
		t.Errorf("total selling = %s, want 1125", item.TotalSelling)
	}
	if !item.CommissionAmount.Equal(dec("56.25")) {
		t.Errorf("commission = %s, want 56.25", item.CommissionAmount)
	}
	if !item.NetSelling.Equal(dec("1068.75")) {
		t.Errorf("net selling = %s, want 1068.75", item.NetSelling)
	}
	if !item.ActualMarginPercent.Equal(dec("12.5")) {
		t.Errorf("actual margin = %s, want 12.5", item.ActualMarginPercent)
	}
}

func TestCalculateItemPricingIdempotent(t *testing.T) {
	item := models.QuoteItem{
		Quantity:          dec("7"),
		UnitCost:          dec("33.33"),
		MarginPercent:     dec("27.5"),
		DiscountPercent:   dec("2.5"),
		CommissionPercent: dec("3"),
	}

	CalculateItemPricing(&item)
	first := item
	CalculateItemPricing(&item)

	if !item.TotalSelling.Equal(first.TotalSelling) || !item.UnitSelling.Equal(first.UnitSelling) ||
		!item.NetSelling.Equal(first.NetSelling) || !item.ActualMarginPercent.Equal(first.ActualMarginPercent) {
		t.Errorf("second run changed derived fields: %+v vs %+v", item, first)
	}
}

func TestCalculateItemPricingZeroCost(t *testing.T) {
	item := models.QuoteItem{Quantity: dec("5"), UnitCost: decimal.Zero, MarginPercent: dec("25")}
	CalculateItemPricing(&item)
	if !item.ActualMarginPercent.IsZero() {
		t.Errorf("actual margin on zero cost = %s, want 0", item.ActualMarginPercent)
	}
	if !item.TotalSelling.IsZero() {
		t.Errorf("total selling on zero cost = %s, want 0", item.TotalSelling)
	}
}

func TestCalculateGroupTotalsAggregateMargin(t *testing.T) {
	group := models.QuoteGroup{
		Items: []models.QuoteItem{
			// Small item at a high margin, big item at a low margin. The
			// group margin has to follow the money, not the item average.
			{Quantity: dec("1"), UnitCost: dec("10"), MarginPercent: dec("100")},
			{Quantity: dec("1"), UnitCost: dec("990"), MarginPercent: dec("10")},
		},
	}

	CalculateGroupTotals(&group)

	if !group.TotalCost.Equal(dec("1000")) {
		t.Fatalf("group cost = %s, want 1000", group.TotalCost)
	}
	if !group.TotalSelling.Equal(dec("1109")) {
		t.Fatalf("group selling = %s, want 1109", group.TotalSelling)
	}
	// (1109-1000)/1000 = 10.9%, nowhere near the 55% item average.
	if !group.MarginPercent.Equal(dec("10.9")) {
		t.Errorf("group margin = %s, want 10.9", group.MarginPercent)
	}
}

func TestCalculateQuoteTotals(t *testing.T) {
	quote := testQuote()
	CalculateQuoteTotals(quote)

	// Trusses: 10*125 + 40*32.5 = 2550 selling over 2000 cost.
	// Sheeting: 80*108 = 8640 selling over 7200 cost.
	if !quote.TotalCost.Equal(dec("9200")) {
		t.Errorf("quote cost = %s, want 9200", quote.TotalCost)
	}
	if !quote.TotalSelling.Equal(dec("11190")) {
		t.Errorf("quote selling = %s, want 11190", quote.TotalSelling)
	}
	if !quote.GrossProfit.Equal(dec("1990")) {
		t.Errorf("gross profit = %s, want 1990", quote.GrossProfit)
	}
	// 1990/11190 = 17.78...% -> 17.8 at one decimal.
	if !quote.GrossProfitPercent.Equal(dec("17.8")) {
		t.Errorf("GP%% = %s, want 17.8", quote.GrossProfitPercent)
	}
	// 1990/9200 = 21.63% -> 21.6.
	if !quote.MarkupPercent.Equal(dec("21.6")) {
		t.Errorf("markup%% = %s, want 21.6", quote.MarkupPercent)
	}
}

func TestDistributeGpAdjustmentReachesTarget(t *testing.T) {
	quote := testQuote()
	target := dec("30")

	if err := DistributeGpAdjustment(quote, target, []int{1, 2}); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	// Margin percentages are re-derived per item at one decimal, so the
	// final GP lands within rounding distance of the target.
	diff := quote.GrossProfitPercent.Sub(target).Abs()
	if diff.GreaterThan(dec("0.2")) {
		t.Errorf("GP%% after distribution = %s, want within 0.2 of %s", quote.GrossProfitPercent, target)
	}
	if !quote.TotalCost.Equal(dec("9200")) {
		t.Errorf("distribution changed cost: %s", quote.TotalCost)
	}
}

func TestDistributeGpAdjustmentSingleGroupAbsorbsAll(t *testing.T) {
	quote := testQuote()
	CalculateQuoteTotals(quote)
	sheetingBefore := quote.Groups[1].TotalSelling

	if err := DistributeGpAdjustment(quote, dec("30"), []int{1}); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	if !quote.Groups[1].TotalSelling.Equal(sheetingBefore) {
		t.Errorf("unselected group selling moved: %s -> %s", sheetingBefore, quote.Groups[1].TotalSelling)
	}
	if quote.Groups[0].TotalSelling.LessThanOrEqual(dec("2550")) {
		t.Errorf("selected group selling did not rise: %s", quote.Groups[0].TotalSelling)
	}
}

func TestDistributeGpAdjustmentInvalidTarget(t *testing.T) {
	quote := testQuote()
	if err := DistributeGpAdjustment(quote, dec("100"), []int{1}); !errors.Is(err, ErrInvalidTargetGp) {
		t.Errorf("target 100%% -> %v, want ErrInvalidTargetGp", err)
	}
	if err := DistributeGpAdjustment(quote, dec("120"), []int{1}); !errors.Is(err, ErrInvalidTargetGp) {
		t.Errorf("target 120%% -> %v, want ErrInvalidTargetGp", err)
	}
}

func TestDistributeGpAdjustmentEmptySelection(t *testing.T) {
	quote := testQuote()
	if err := DistributeGpAdjustment(quote, dec("30"), nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("no groups -> %v, want ErrEmptySelection", err)
	}
	// Group 99 does not exist, so the selection carries no selling value.
	if err := DistributeGpAdjustment(quote, dec("30"), []int{99}); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("unknown group -> %v, want ErrEmptySelection", err)
	}
}

func TestApplyBulkMarginAdjustment(t *testing.T) {
	quote := testQuote()

	if err := ApplyBulkMarginAdjustment(quote, 1, dec("40")); err != nil {
		t.Fatalf("bulk margin: %v", err)
	}

	for _, item := range quote.Groups[0].Items {
		if !item.MarginPercent.Equal(dec("40")) {
			t.Errorf("item %d margin = %s, want 40", item.ID, item.MarginPercent)
		}
	}
	// 10*140 + 40*35 = 2800.
	if !quote.Groups[0].TotalSelling.Equal(dec("2800")) {
		t.Errorf("group selling = %s, want 2800", quote.Groups[0].TotalSelling)
	}
	if !quote.TotalSelling.Equal(dec("11440")) {
		t.Errorf("quote selling = %s, want 11440", quote.TotalSelling)
	}
}

func TestApplyBulkDiscountAdjustment(t *testing.T) {
	quote := testQuote()

	if err := ApplyBulkDiscountAdjustment(quote, 2, dec("10")); err != nil {
		t.Fatalf("bulk discount: %v", err)
	}

	// 80 * 90 * 1.2 * 0.9 = 7776.
	if !quote.Groups[1].TotalSelling.Equal(dec("7776")) {
		t.Errorf("group selling = %s, want 7776", quote.Groups[1].TotalSelling)
	}
}

func TestBulkAdjustmentUnknownGroup(t *testing.T) {
	quote := testQuote()
	if err := ApplyBulkMarginAdjustment(quote, 42, dec("40")); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("bulk margin unknown group -> %v, want ErrorRecordNotFound", err)
	}
	if err := ApplyBulkDiscountAdjustment(quote, 42, dec("10")); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("bulk discount unknown group -> %v, want ErrorRecordNotFound", err)
	}
}
