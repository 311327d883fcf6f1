package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEnsureRequiredVariables(t *testing.T) {
	f := Formula{
		FormulaExpression: "ROUNDUP({Eaves Length}/3,0) + {Gable Count} * {Overhang}",
		OptionalVariables: StringList{"Overhang"},
	}
	f.EnsureRequiredVariables()

	want := StringList{"Eaves Length", "Gable Count"}
	if len(f.RequiredVariables) != len(want) {
		t.Fatalf("required = %v, want %v", f.RequiredVariables, want)
	}
	for i := range want {
		if f.RequiredVariables[i] != want[i] {
			t.Fatalf("required = %v, want %v", f.RequiredVariables, want)
		}
	}

	// An explicit list is never overwritten.
	f2 := Formula{
		FormulaExpression: "{A} + {B}",
		RequiredVariables: StringList{"A"},
	}
	f2.EnsureRequiredVariables()
	if len(f2.RequiredVariables) != 1 || f2.RequiredVariables[0] != "A" {
		t.Errorf("explicit required list overwritten: %v", f2.RequiredVariables)
	}
}

func TestRecordUsageSampleBlendsExecutionTime(t *testing.T) {
	f := Formula{SuccessRate: decimal.NewFromInt(100)}

	f.RecordUsageSample(decimal.NewFromInt(10), true, 0)
	if f.TimesUsed != 1 || !f.AverageExecutionTime.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("after first sample: used=%d avg=%s", f.TimesUsed, f.AverageExecutionTime)
	}

	// The running average is the blend (old+new)/2, not a cumulative mean.
	f.RecordUsageSample(decimal.NewFromInt(20), true, 0)
	if !f.AverageExecutionTime.Equal(decimal.NewFromInt(15)) {
		t.Errorf("avg after 10,20 = %s, want 15", f.AverageExecutionTime)
	}
	f.RecordUsageSample(decimal.NewFromInt(5), true, 0)
	if !f.AverageExecutionTime.Equal(decimal.NewFromInt(10)) {
		t.Errorf("avg after blend with 5 = %s, want 10", f.AverageExecutionTime)
	}
	if f.TimesUsed != 3 {
		t.Errorf("times used = %d, want 3", f.TimesUsed)
	}
}

func TestRecordUsageSampleFailureUpdatesSuccessRate(t *testing.T) {
	f := Formula{TimesUsed: 3, SuccessRate: decimal.NewFromInt(100)}

	f.RecordUsageSample(decimal.NewFromInt(4), false, 1)

	if f.TimesUsed != 3 {
		t.Errorf("failure incremented times used: %d", f.TimesUsed)
	}
	// 3 successes out of 4 attempts.
	if !f.SuccessRate.Equal(decimal.NewFromInt(75)) {
		t.Errorf("success rate = %s, want 75", f.SuccessRate)
	}
}

func TestNewVersion(t *testing.T) {
	f := Formula{
		ID:                7,
		Code:              "BRACE-EAVES",
		FormulaExpression: "ROUNDUP({Eaves Length}/3,0)",
		VersionNumber:     2,
		CurrentStatus:     FormulaStatusApproved,
		IsCurrentVersion:  boolPtr(true),
	}

	next := f.NewVersion("dale")

	if f.IsCurrentVersion == nil || *f.IsCurrentVersion {
		t.Error("old version still marked current")
	}
	if next.VersionNumber != 3 {
		t.Errorf("new version number = %d, want 3", next.VersionNumber)
	}
	if next.ParentFormulaId == nil || *next.ParentFormulaId != 7 {
		t.Errorf("parent id = %v, want 7", next.ParentFormulaId)
	}
	if next.CurrentStatus != FormulaStatusDraft {
		t.Errorf("new version status = %s, want Draft", next.CurrentStatus)
	}
	if next.IsCurrentVersion == nil || !*next.IsCurrentVersion {
		t.Error("new version not marked current")
	}
	if next.FormulaExpression != f.FormulaExpression || next.Code != f.Code {
		t.Error("new version lost expression or code")
	}
}

func TestApproveRevalidates(t *testing.T) {
	good := Formula{Code: "OK", FormulaExpression: "{Span} * 2"}
	if err := good.Approve("dale"); err != nil {
		t.Fatalf("approve valid formula: %v", err)
	}
	if good.CurrentStatus != FormulaStatusApproved || good.ApprovedDate == nil {
		t.Errorf("approval did not stick: %+v", good)
	}

	bad := Formula{Code: "BAD", FormulaExpression: "SUMPRODUCT({A},{B})"}
	if err := bad.Approve("dale"); err == nil {
		t.Error("approved a formula with an unknown function")
	}
	if bad.CurrentStatus == FormulaStatusApproved {
		t.Error("failed approval changed status")
	}
}

func boolPtr(b bool) *bool { return &b }
