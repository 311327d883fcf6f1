package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
)

// Seeds the standard roofing formula library. Safe to re-run: existing
// formula codes are left untouched.

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func standardFormulas() []models.Formula {
	return []models.Formula{
		{
			Name:              "Eaves Bracing Timber",
			Code:              "BRACE-EAVES",
			Description:       "Bracing pieces along the eaves, one 3.0m length per started 3m",
			Category:          "Bracing",
			FormulaExpression: "ROUNDUP(({Total_Length_Eaves} / 3000), 0)",
			FormulaType:       models.FormulaTypeCount,
			ResultUom:         "ea",
			PrecisionDigits:   0,
			AlwaysRoundUp:     utils.NewTrue(),
			MinimumValue:      decPtr("1"),
		},
		{
			Name:              "Bracing Nails",
			Code:              "BRACE-NAILS",
			Description:       "20 nails per bracing piece",
			Category:          "Bracing",
			FormulaExpression: "ROUNDUP(({Total_Length_Eaves} / 3000), 0) * 20",
			FormulaType:       models.FormulaTypeCount,
			ResultUom:         "ea",
			PrecisionDigits:   0,
		},
		{
			Name:              "Corrugated Sheeting 762mm Cover",
			Code:              "SHEET-762",
			Description:       "Sheet count for 762mm effective cover",
			Category:          "Sheeting",
			FormulaExpression: "ROUNDUP(({Roof_Area} / 0.762), 0)",
			FormulaType:       models.FormulaTypeCount,
			ResultUom:         "ea",
			PrecisionDigits:   0,
		},
		{
			Name:              "Sheeting Screws",
			Code:              "SHEET-SCREWS",
			Description:       "8 hex screws per sheet",
			Category:          "Sheeting",
			FormulaExpression: "ROUNDUP(({Roof_Area} / 0.762), 0) * 8",
			FormulaType:       models.FormulaTypeCount,
			ResultUom:         "ea",
			PrecisionDigits:   0,
		},
		{
			Name:              "Batten Length",
			Code:              "BATTEN-LENGTH",
			Description:       "Total batten run from rafter length and batten spacing",
			Category:          "Battens",
			FormulaExpression: "{Rafter_Length} / {Batten_Spacing} * {Roof_Width}",
			FormulaType:       models.FormulaTypeLength,
			ResultUom:         "m",
			PrecisionDigits:   2,
		},
		{
			Name:              "Ridge Capping",
			Code:              "RIDGE-CAP",
			Description:       "Ridge capping pieces at 1.8m cover with one piece minimum",
			Category:          "Sheeting",
			FormulaExpression: "MAX(ROUNDUP(({Ridge_Length} / 1.8), 0), 1)",
			FormulaType:       models.FormulaTypeCount,
			ResultUom:         "ea",
			PrecisionDigits:   0,
			MinimumValue:      decPtr("1"),
		},
	}
}

func main() {
	approve := flag.Bool("approve", true, "Mark seeded formulas as approved")
	approvedBy := flag.String("approved-by", "seed", "Approver recorded on seeded formulas")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	if err := models.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	created, skipped := 0, 0
	for _, f := range standardFormulas() {
		var existing models.Formula
		err := db.Where("code = ? AND is_current_version = ?", f.Code, true).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "lookup %s: %v\n", f.Code, err)
			os.Exit(1)
		}

		f.EnsureRequiredVariables()
		f.SuccessRate = decimal.NewFromInt(100)
		f.IsCurrentVersion = utils.NewTrue()
		f.VersionNumber = 1
		f.CreatedBy = *approvedBy
		if *approve {
			if err := f.Approve(*approvedBy); err != nil {
				fmt.Fprintf(os.Stderr, "approve %s: %v\n", f.Code, err)
				os.Exit(1)
			}
		}

		if err := db.Create(&f).Error; err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", f.Code, err)
			os.Exit(1)
		}
		created++
	}

	fmt.Printf("seed complete: %d created, %d already present\n", created, skipped)
}
