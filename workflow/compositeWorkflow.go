package workflow

import (
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/shopspring/decimal"
)

// CalculateCompositeRatePricing rolls a composite rate's typed components
// into a selling price. The overhead percentage applies to material, labour
// and transport only; overhead-typed components are added at cost after
// that, then markup applies to the full cost.
func CalculateCompositeRatePricing(rate *models.CompositeRate) models.CompositePricingResponse {
	materialCost := decimal.Zero
	labourCost := decimal.Zero
	transportCost := decimal.Zero
	overheadCost := decimal.Zero

	for _, component := range rate.Components {
		switch component.ComponentType {
		case models.ComponentTypeLabour:
			labourCost = labourCost.Add(component.TotalCost)
		case models.ComponentTypeTransport:
			transportCost = transportCost.Add(component.TotalCost)
		case models.ComponentTypeOverhead:
			overheadCost = overheadCost.Add(component.TotalCost)
		default:
			materialCost = materialCost.Add(component.TotalCost)
		}
	}

	baseCost := materialCost.Add(labourCost).Add(transportCost)
	overheadAmount := baseCost.Mul(rate.OverheadPercent.Div(decimalOneHundred))
	totalCost := baseCost.Add(overheadAmount).Add(overheadCost)
	markupAmount := totalCost.Mul(rate.MarkupPercent.Div(decimalOneHundred))
	sellingPrice := totalCost.Add(markupAmount)

	return models.CompositePricingResponse{
		MaterialCost:   quantizeCurrency(materialCost),
		LabourCost:     quantizeCurrency(labourCost),
		TransportCost:  quantizeCurrency(transportCost),
		OverheadCost:   quantizeCurrency(overheadCost),
		OverheadAmount: quantizeCurrency(overheadAmount),
		TotalCost:      quantizeCurrency(totalCost),
		MarkupAmount:   quantizeCurrency(markupAmount),
		SellingPrice:   quantizeCurrency(sellingPrice),
	}
}
