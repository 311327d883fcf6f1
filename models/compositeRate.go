package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompositeRate is a tender-rate recipe: typed cost components plus an
// overhead and markup percentage rolled into one selling price.
type CompositeRate struct {
	ID          int    `gorm:"primary_key" json:"id"`
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code" binding:"required"`
	Description string `gorm:"size:255" json:"description"`
	ResultUom   string `gorm:"size:20" json:"result_uom"`

	OverheadPercent decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"overhead_percent"`
	MarkupPercent   decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"markup_percent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Components []CompositeRateComponent `gorm:"foreignKey:CompositeRateId" json:"components"`
}

type CompositeRateComponent struct {
	ID              int             `gorm:"primary_key" json:"id"`
	CompositeRateId int             `gorm:"index;not null" json:"composite_rate_id"`
	ComponentType   ComponentType   `gorm:"type:enum('material','labour','transport','overhead');default:material" json:"component_type"`
	Description     string          `gorm:"size:255" json:"description"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
}

// CompositePricingResponse is the calculated breakdown returned to callers.
type CompositePricingResponse struct {
	MaterialCost   decimal.Decimal `json:"material_cost"`
	LabourCost     decimal.Decimal `json:"labour_cost"`
	TransportCost  decimal.Decimal `json:"transport_cost"`
	OverheadCost   decimal.Decimal `json:"overhead_cost"`
	OverheadAmount decimal.Decimal `json:"overhead_amount"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	MarkupAmount   decimal.Decimal `json:"markup_amount"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
}
