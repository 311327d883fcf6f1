package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/DaleTiley/timber-roof-erp/formula"
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var moduleName = "workflow"

// CalculationContext carries the document scope an evaluation runs under.
// Everything in it ends up on the calculation log row.
type CalculationContext struct {
	ReferenceType models.ReferenceType
	ReferenceId   int
	StockItemId   int
	CalculatedBy  string
	CorrelationId string
}

// EvaluateFormula runs one stored formula against a variable map. Every
// attempt is logged, success or failure, and the formula's usage statistics
// are updated under a per-code lock so concurrent evaluations cannot clobber
// each other's running averages. The evaluation result is returned even if
// the statistics update fails; statistics are best effort, quantities are
// not.
func EvaluateFormula(ctx context.Context, db *gorm.DB, f *models.Formula, vars map[string]decimal.Decimal, calcCtx CalculationContext) (decimal.Decimal, []string, error) {
	logger := config.GetLogger()
	functionName := "EvaluateFormula"

	start := time.Now()
	result, evalErr := formula.Evaluate(f.FormulaExpression, vars, f.RequiredVariables)
	executionTimeMs := decimal.NewFromFloat(float64(time.Since(start).Microseconds())).
		Div(decimalOneThousand)

	finalValue := decimal.Zero
	var warnings []string
	if evalErr == nil {
		finalValue = f.Constraints().Apply(result.Value)
		warnings = result.Warnings
	}

	logRow := models.FormulaCalculationLog{
		FormulaId:       f.ID,
		InputVariables:  models.DecimalMap(vars),
		ExecutionTimeMs: executionTimeMs,
		ReferenceType:   calcCtx.ReferenceType,
		ReferenceId:     calcCtx.ReferenceId,
		StockItemId:     calcCtx.StockItemId,
		WasSuccessful:   utils.NewTrue(),
		WarningMessages: warnings,
		CalculatedBy:    calcCtx.CalculatedBy,
		CorrelationId:   calcCtx.CorrelationId,
	}
	if evalErr != nil {
		logRow.WasSuccessful = utils.NewFalse()
		logRow.ErrorMessage = evalErr.Error()
	} else {
		logRow.CalculatedResult = &finalValue
	}

	if err := db.WithContext(ctx).Create(&logRow).Error; err != nil {
		config.LogError(logger, moduleName, functionName, "create calculation log", f.Code, err)
		return decimal.Zero, warnings, err
	}

	if err := updateFormulaStats(ctx, db, f, executionTimeMs, evalErr == nil); err != nil {
		config.LogError(logger, moduleName, functionName, "update formula statistics", f.Code, err)
	}

	if evalErr != nil {
		return decimal.Zero, warnings, evalErr
	}
	return finalValue, warnings, nil
}

func updateFormulaStats(ctx context.Context, db *gorm.DB, f *models.Formula, executionTimeMs decimal.Decimal, successful bool) error {
	release, err := utils.FormulaStatsLock(ctx, f.Code, moduleName, "updateFormulaStats")
	if err != nil {
		return err
	}
	defer release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Formula
		if err := tx.First(&current, f.ID).Error; err != nil {
			return err
		}

		failedCalculations := int64(0)
		if !successful {
			failedCalculations, err = models.CountFailedCalculations(ctx, tx, f.ID)
			if err != nil {
				return err
			}
		}

		current.RecordUsageSample(executionTimeMs, successful, failedCalculations)
		err = tx.Model(&models.Formula{}).Where("id = ?", current.ID).
			Updates(map[string]any{
				"times_used":             current.TimesUsed,
				"success_rate":           current.SuccessRate,
				"average_execution_time": current.AverageExecutionTime,
			}).Error
		if err != nil {
			return err
		}

		f.TimesUsed = current.TimesUsed
		f.SuccessRate = current.SuccessRate
		f.AverageExecutionTime = current.AverageExecutionTime
		return nil
	})
}

// CalculateAssignmentQuantity evaluates a stock item's assigned formula and
// layers the assignment's waste factor and quantity overrides on top. A
// failed evaluation yields quantity zero with a warning instead of an error
// so a batch over many stock items keeps going.
func CalculateAssignmentQuantity(ctx context.Context, db *gorm.DB, assignment *models.StockFormulaAssignment, vars map[string]decimal.Decimal, calcCtx CalculationContext) (decimal.Decimal, []string, error) {
	if assignment.Formula == nil {
		return decimal.Zero, nil, fmt.Errorf("assignment %d has no formula loaded", assignment.ID)
	}

	calcCtx.StockItemId = assignment.StockItemId
	quantity, warnings, err := EvaluateFormula(ctx, db, assignment.Formula, vars, calcCtx)
	if err != nil {
		warnings = append(warnings,
			fmt.Sprintf("formula %s failed for stock item %d: %v",
				assignment.Formula.Code, assignment.StockItemId, err))
		return decimal.Zero, warnings, nil
	}

	if assignment.WasteFactor.IsPositive() {
		quantity = CalculateWasteFactor(quantity, assignment.WasteFactor)
	}
	if assignment.OverrideMinimumQty != nil && quantity.LessThan(*assignment.OverrideMinimumQty) {
		quantity = *assignment.OverrideMinimumQty
	}
	if assignment.OverrideMaximumQty != nil && quantity.GreaterThan(*assignment.OverrideMaximumQty) {
		quantity = *assignment.OverrideMaximumQty
	}
	return quantity, warnings, nil
}
