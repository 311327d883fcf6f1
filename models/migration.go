package models

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Formula{},
		&FormulaCalculationLog{},
		&StockFormulaAssignment{},
		&ProjectVariable{},
		&Quote{},
		&QuoteGroup{},
		&QuoteItem{},
		&CompositeRate{},
		&CompositeRateComponent{},
	)
}
