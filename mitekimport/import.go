// Package mitekimport reads MiTek Pamir design exports and loads their
// variables as project variables, ready for formula evaluation.
package mitekimport

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var moduleName = "mitekimport"

// ParsedVariable is one usable name/value pair lifted out of a workbook.
type ParsedVariable struct {
	Name     string
	Value    decimal.Decimal
	Category models.VariableCategory
	Unit     string
}

// ImportResult summarizes one import run.
type ImportResult struct {
	BatchId           string   `json:"batch_id"`
	VariablesImported int      `json:"variables_imported"`
	SkippedRows       int      `json:"skipped_rows"`
	Warnings          []string `json:"warnings"`
}

// ParseVariablesWorkbook reads the first sheet of a Pamir variables export.
// Column A is the variable name, column B the value. Rows with a blank name
// or a value that does not parse as a number are skipped with a warning; a
// header row is recognized the same way and costs nothing.
func ParseVariablesWorkbook(r io.Reader) ([]ParsedVariable, []string, int, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheetName := workbook.GetSheetName(0)
	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	var variables []ParsedVariable
	var warnings []string
	skipped := 0
	seen := map[string]bool{}

	for i, row := range rows {
		if len(row) < 2 {
			skipped++
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			skipped++
			continue
		}

		value, err := utils.ParseDecimal(row[1])
		if err != nil {
			skipped++
			if i > 0 {
				warnings = append(warnings, fmt.Sprintf("row %d: value %q for %s is not numeric", i+1, row[1], name))
			}
			continue
		}
		if seen[name] {
			warnings = append(warnings, fmt.Sprintf("row %d: duplicate variable %s, keeping the later value", i+1, name))
		}
		seen[name] = true

		variables = append(variables, ParsedVariable{
			Name:     name,
			Value:    value,
			Category: CategorizeVariable(name),
			Unit:     DetermineUnit(name),
		})
	}

	return variables, warnings, skipped, nil
}

// ImportVariables parses a workbook and replaces the reference's variables
// in one transaction. Earlier imports for the same reference are removed so
// a re-import after a design revision never leaves stale measurements
// behind. The variable cache for the reference is invalidated on success.
func ImportVariables(ctx context.Context, db *gorm.DB, r io.Reader, refType models.ReferenceType, refId int, refNumber, sourceFile, importedBy string) (*ImportResult, error) {
	logger := config.GetLogger()
	functionName := "ImportVariables"

	parsed, warnings, skipped, err := ParseVariablesWorkbook(r)
	if err != nil {
		config.LogError(logger, moduleName, functionName, "parse workbook", sourceFile, err)
		return nil, err
	}

	batchId := uuid.NewString()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("reference_type = ? AND reference_id = ?", refType, refId).
			Delete(&models.ProjectVariable{}).Error
		if err != nil {
			return err
		}

		for _, v := range parsed {
			record := models.ProjectVariable{
				ReferenceType:   refType,
				ReferenceId:     refId,
				ReferenceNumber: refNumber,
				VariableName:    v.Name,
				VariableValue:   v.Value,
				VariableUnit:    v.Unit,
				Category:        v.Category,
				SourceSystem:    "MITEK_PAMIR",
				SourceFile:      sourceFile,
				ImportBatchId:   batchId,
				ImportedBy:      importedBy,
				IsActive:        utils.NewTrue(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(logger, moduleName, functionName, "replace project variables", refId, err)
		return nil, err
	}

	models.InvalidateVariableCache(refType, refId)

	return &ImportResult{
		BatchId:           batchId,
		VariablesImported: len(parsed),
		SkippedRows:       skipped,
		Warnings:          warnings,
	}, nil
}
