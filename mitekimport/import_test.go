package mitekimport

import (
	"bytes"
	"testing"

	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParseVariablesWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Variable", "Value"},
		{"Eaves Length", 24.5},
		{"Roof Area", 186.2},
		{"Truss Count", 14},
		{"Roof Pitch Angle", 26},
		{"", 99},
		{"Notes", "see drawing"},
	})

	variables, warnings, skipped, err := ParseVariablesWorkbook(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(variables) != 4 {
		t.Fatalf("parsed %d variables, want 4: %+v", len(variables), variables)
	}
	// Header, blank name and non-numeric value rows are all skipped.
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	// The header row is silently skipped; the non-numeric data row warns.
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for the Notes row", warnings)
	}

	byName := map[string]ParsedVariable{}
	for _, v := range variables {
		byName[v.Name] = v
	}

	eaves := byName["Eaves Length"]
	if !eaves.Value.Equal(decimal.RequireFromString("24.5")) {
		t.Errorf("Eaves Length = %s, want 24.5", eaves.Value)
	}
	if eaves.Category != models.VariableCategoryDimension || eaves.Unit != "mm" {
		t.Errorf("Eaves Length classified as %s/%s", eaves.Category, eaves.Unit)
	}
	if v := byName["Roof Area"]; v.Category != models.VariableCategoryArea || v.Unit != "m²" {
		t.Errorf("Roof Area classified as %s/%s", v.Category, v.Unit)
	}
	if v := byName["Truss Count"]; v.Category != models.VariableCategoryCount || v.Unit != "ea" {
		t.Errorf("Truss Count classified as %s/%s", v.Category, v.Unit)
	}
	if v := byName["Roof Pitch Angle"]; v.Category != models.VariableCategoryAngle || v.Unit != "°" {
		t.Errorf("Roof Pitch Angle classified as %s/%s", v.Category, v.Unit)
	}
}

func TestParseVariablesWorkbookDuplicateWarns(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Span", 9000},
		{"Span", 9600},
	})

	variables, warnings, _, err := ParseVariablesWorkbook(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(variables) != 2 {
		t.Fatalf("parsed %d rows, want both duplicates kept", len(variables))
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one duplicate warning", warnings)
	}
}

func TestCategorizeVariable(t *testing.T) {
	tests := []struct {
		name string
		want models.VariableCategory
	}{
		{"Eaves Length", models.VariableCategoryDimension},
		{"Gable Width", models.VariableCategoryDimension},
		{"Sheeting Coverage", models.VariableCategoryArea},
		{"Hanger Qty", models.VariableCategoryCount},
		{"Roof Slope", models.VariableCategoryAngle},
		{"Dead Load", models.VariableCategoryWeight},
		{"Site Code", models.VariableCategoryOther},
	}
	for _, tt := range tests {
		if got := CategorizeVariable(tt.name); got != tt.want {
			t.Errorf("CategorizeVariable(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}
