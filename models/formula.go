package models

import (
	"context"
	"fmt"
	"time"

	"github.com/DaleTiley/timber-roof-erp/formula"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Formula is a stored, versioned quantity formula. Superseded versions are
// never mutated; NewVersion clones the row so historical calculation logs
// keep pointing at the expression that produced them.
type Formula struct {
	ID          int    `gorm:"primary_key" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name" binding:"required"`
	Code        string `gorm:"size:50;uniqueIndex:idx_formula_code_version;not null" json:"code" binding:"required"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	FormulaExpression string      `gorm:"type:text;not null" json:"formula_expression" binding:"required"`
	FormulaType       FormulaType `gorm:"type:enum('QUANTITY','LENGTH','AREA','VOLUME','COUNT');default:QUANTITY" json:"formula_type"`
	ResultUom         string      `gorm:"size:20" json:"result_uom"`

	PrecisionDigits int32            `gorm:"default:2" json:"precision_digits"`
	AlwaysRoundUp   *bool            `gorm:"not null;default:false" json:"always_round_up"`
	MinimumValue    *decimal.Decimal `gorm:"type:decimal(18,6)" json:"minimum_value"`
	MaximumValue    *decimal.Decimal `gorm:"type:decimal(18,6)" json:"maximum_value"`

	RequiredVariables StringList `gorm:"type:json" json:"required_variables"`
	OptionalVariables StringList `gorm:"type:json" json:"optional_variables"`

	TimesUsed            int             `gorm:"default:0" json:"times_used"`
	SuccessRate          decimal.Decimal `gorm:"type:decimal(5,2);default:100" json:"success_rate"`
	AverageExecutionTime decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"average_execution_time"`

	CurrentStatus FormulaStatus `gorm:"type:enum('Draft','Approved');default:Draft" json:"current_status"`
	ApprovedBy    string        `gorm:"size:100" json:"approved_by"`
	ApprovedDate  *time.Time    `json:"approved_date"`

	VersionNumber    int   `gorm:"uniqueIndex:idx_formula_code_version;default:1" json:"version_number"`
	ParentFormulaId  *int  `gorm:"index" json:"parent_formula_id"`
	IsCurrentVersion *bool `gorm:"not null;default:true" json:"is_current_version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedBy string    `gorm:"size:100" json:"created_by"`
	UpdatedBy string    `gorm:"size:100" json:"updated_by"`
}

// Constraints translates the stored numeric-result policy into the
// evaluator's constraint set.
func (f *Formula) Constraints() formula.Constraints {
	c := formula.Constraints{
		PrecisionDigits: f.PrecisionDigits,
		Minimum:         f.MinimumValue,
		Maximum:         f.MaximumValue,
	}
	if f.AlwaysRoundUp != nil {
		c.AlwaysRoundUp = *f.AlwaysRoundUp
	}
	return c
}

// EnsureRequiredVariables populates the required-variable list from the
// placeholders discovered in the expression when the author left it empty.
// Explicit composition of the two pure evaluator calls; nothing happens as a
// hidden side effect of validation.
func (f *Formula) EnsureRequiredVariables() {
	if len(f.RequiredVariables) > 0 {
		return
	}
	f.RequiredVariables = ExtractNonOptionalVariables(f.FormulaExpression, f.OptionalVariables)
}

func ExtractNonOptionalVariables(expression string, optional StringList) StringList {
	optionalSet := make(map[string]struct{}, len(optional))
	for _, name := range optional {
		optionalSet[name] = struct{}{}
	}
	var required StringList
	for _, name := range formula.ExtractVariables(expression) {
		if _, ok := optionalSet[name]; ok {
			continue
		}
		required = append(required, name)
	}
	return required
}

// Approve marks the formula approved after re-validating its expression.
// An expression that no longer parses cannot be approved.
func (f *Formula) Approve(approvedBy string) error {
	if err := formula.ValidateSyntax(f.FormulaExpression); err != nil {
		return fmt.Errorf("cannot approve formula %s: %w", f.Code, err)
	}
	now := time.Now()
	f.CurrentStatus = FormulaStatusApproved
	f.ApprovedBy = approvedBy
	f.ApprovedDate = &now
	return nil
}

// NewVersion clones the formula as version n+1 and marks the receiver as no
// longer current. The caller persists both rows in one transaction.
func (f *Formula) NewVersion(updatedBy string) *Formula {
	falseVal := false
	trueVal := true
	f.IsCurrentVersion = &falseVal

	return &Formula{
		Name:              f.Name,
		Code:              f.Code,
		Description:       f.Description,
		Category:          f.Category,
		FormulaExpression: f.FormulaExpression,
		FormulaType:       f.FormulaType,
		ResultUom:         f.ResultUom,
		PrecisionDigits:   f.PrecisionDigits,
		AlwaysRoundUp:     f.AlwaysRoundUp,
		MinimumValue:      f.MinimumValue,
		MaximumValue:      f.MaximumValue,
		RequiredVariables: f.RequiredVariables,
		OptionalVariables: f.OptionalVariables,
		CurrentStatus:     FormulaStatusDraft,
		SuccessRate:       decimal.NewFromInt(100),
		VersionNumber:     f.VersionNumber + 1,
		ParentFormulaId:   &f.ID,
		IsCurrentVersion:  &trueVal,
		CreatedBy:         updatedBy,
		UpdatedBy:         updatedBy,
	}
}

// RecordUsageSample folds one evaluation into the running usage statistics.
// The execution-time average keeps the historical blend (old+new)/2 rather
// than a true cumulative mean; downstream reporting depends on it.
// failedCalculations is the count of failed log rows for this formula, which
// the caller reads inside the same statistics transaction.
func (f *Formula) RecordUsageSample(executionTimeMs decimal.Decimal, successful bool, failedCalculations int64) {
	if successful {
		f.TimesUsed++
		if f.AverageExecutionTime.IsZero() {
			f.AverageExecutionTime = executionTimeMs
		} else {
			f.AverageExecutionTime = f.AverageExecutionTime.Add(executionTimeMs).Div(decimal.NewFromInt(2))
		}
		return
	}

	total := decimal.NewFromInt(int64(f.TimesUsed) + 1)
	successfulCount := total.Sub(decimal.NewFromInt(failedCalculations))
	if successfulCount.IsNegative() {
		successfulCount = decimal.Zero
	}
	f.SuccessRate = successfulCount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
}

// CurrentFormulaByCode fetches the current version of a formula.
func CurrentFormulaByCode(ctx context.Context, db *gorm.DB, code string) (*Formula, error) {
	var f Formula
	err := db.WithContext(ctx).
		Where("code = ? AND is_current_version = ?", code, true).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FormulaCalculationLog is append-only: one row per evaluation attempt,
// success or failure. Past entries are never updated.
type FormulaCalculationLog struct {
	ID        int `gorm:"primary_key" json:"id"`
	FormulaId int `gorm:"index;not null" json:"formula_id"`

	InputVariables   DecimalMap       `gorm:"type:json" json:"input_variables"`
	CalculatedResult *decimal.Decimal `gorm:"type:decimal(18,6)" json:"calculated_result"`
	ExecutionTimeMs  decimal.Decimal  `gorm:"type:decimal(8,4);default:0" json:"execution_time_ms"`

	ReferenceType ReferenceType `gorm:"size:20" json:"reference_type"`
	ReferenceId   int           `json:"reference_id"`
	StockItemId   int           `json:"stock_item_id"`

	WasSuccessful   *bool      `gorm:"not null" json:"was_successful"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message"`
	WarningMessages StringList `gorm:"type:json" json:"warning_messages"`

	CalculationDate time.Time `gorm:"autoCreateTime" json:"calculation_date"`
	CalculatedBy    string    `gorm:"size:100" json:"calculated_by"`
	CorrelationId   string    `gorm:"size:64" json:"correlation_id"`
}

func CountFailedCalculations(ctx context.Context, db *gorm.DB, formulaId int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&FormulaCalculationLog{}).
		Where("formula_id = ? AND was_successful = ?", formulaId, false).
		Count(&count).Error
	return count, err
}

// StockFormulaAssignment binds a formula to a stock item, with an extra
// waste factor and quantity overrides applied on top of the formula result.
type StockFormulaAssignment struct {
	ID          int `gorm:"primary_key" json:"id"`
	StockItemId int `gorm:"index;not null" json:"stock_item_id" binding:"required"`
	FormulaId   int `gorm:"index;not null" json:"formula_id" binding:"required"`

	IsPrimary *bool `gorm:"not null;default:true" json:"is_primary"`
	Priority  int   `gorm:"default:1" json:"priority"`

	WasteFactor        decimal.Decimal  `gorm:"type:decimal(5,2);default:0" json:"waste_factor"`
	OverrideMinimumQty *decimal.Decimal `gorm:"type:decimal(18,6)" json:"override_minimum_qty"`
	OverrideMaximumQty *decimal.Decimal `gorm:"type:decimal(18,6)" json:"override_maximum_qty"`

	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Formula *Formula `gorm:"foreignKey:FormulaId" json:"formula"`
}
