package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote -> QuoteGroup -> QuoteItem is the pricing tree. The four percentage
// inputs and quantity/unit cost on an item are ground truth; every other
// money field is derived and recomputed by the pricing workflows, never
// accumulated in place.
type Quote struct {
	ID          int        `gorm:"primary_key" json:"id"`
	QuoteNumber string     `gorm:"size:50;not null" json:"quote_number" binding:"required"`
	ProjectId   int        `gorm:"index" json:"project_id"`
	CustomerId  int        `gorm:"index" json:"customer_id"`
	Description string     `gorm:"size:255" json:"description"`
	QuoteDate   *time.Time `json:"quote_date"`

	TotalCost          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	TotalSelling       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_selling"`
	TotalCommission    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_commission"`
	TotalNetSelling    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_net_selling"`
	GrossProfit        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_profit"`
	GrossProfitPercent decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"gross_profit_percent"`
	MarkupPercent      decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"markup_percent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Groups []QuoteGroup `gorm:"foreignKey:QuoteId" json:"groups"`
}

type QuoteGroup struct {
	ID        int    `gorm:"primary_key" json:"id"`
	QuoteId   int    `gorm:"index;not null" json:"quote_id"`
	GroupName string `gorm:"size:100;not null" json:"group_name"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`

	TotalCost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	TotalSelling    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_selling"`
	TotalCommission decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_commission"`
	TotalNetSelling decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_net_selling"`
	MarginPercent   decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"margin_percent"`
	GpPercent       decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"gp_percent"`

	Items []QuoteItem `gorm:"foreignKey:QuoteGroupId" json:"items"`
}

type QuoteItem struct {
	ID           int    `gorm:"primary_key" json:"id"`
	QuoteGroupId int    `gorm:"index;not null" json:"quote_group_id"`
	StockItemId  int    `gorm:"index" json:"stock_item_id"`
	StockCode    string `gorm:"size:50" json:"stock_code"`
	Description  string `gorm:"size:255" json:"description"`
	Unit         string `gorm:"size:20" json:"unit"`
	SortOrder    int    `gorm:"default:0" json:"sort_order"`

	// Ground-truth pricing inputs.
	Quantity          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	MarginPercent     decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"margin_percent"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"discount_percent"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"commission_percent"`

	// Derived pricing fields.
	TotalCost           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	UnitSelling         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_selling"`
	TotalSelling        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_selling"`
	CommissionAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"commission_amount"`
	NetSelling          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_selling"`
	ActualMarginPercent decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"actual_margin_percent"`
}
