package models

// ReferenceType scopes project variables and calculation logs to the
// document they were captured for.
type ReferenceType string

const (
	ReferenceTypeQuote   ReferenceType = "QUOTE"
	ReferenceTypeTender  ReferenceType = "TENDER"
	ReferenceTypeOrder   ReferenceType = "ORDER"
	ReferenceTypeProject ReferenceType = "PROJECT"
)

type FormulaStatus string

const (
	FormulaStatusDraft    FormulaStatus = "Draft"
	FormulaStatusApproved FormulaStatus = "Approved"
)

type FormulaType string

const (
	FormulaTypeQuantity FormulaType = "QUANTITY"
	FormulaTypeLength   FormulaType = "LENGTH"
	FormulaTypeArea     FormulaType = "AREA"
	FormulaTypeVolume   FormulaType = "VOLUME"
	FormulaTypeCount    FormulaType = "COUNT"
)

type ComponentType string

const (
	ComponentTypeMaterial  ComponentType = "material"
	ComponentTypeLabour    ComponentType = "labour"
	ComponentTypeTransport ComponentType = "transport"
	ComponentTypeOverhead  ComponentType = "overhead"
)

type VariableCategory string

const (
	VariableCategoryDimension VariableCategory = "DIMENSION"
	VariableCategoryArea      VariableCategory = "AREA"
	VariableCategoryCount     VariableCategory = "COUNT"
	VariableCategoryAngle     VariableCategory = "ANGLE"
	VariableCategoryWeight    VariableCategory = "WEIGHT"
	VariableCategoryOther     VariableCategory = "OTHER"
)
