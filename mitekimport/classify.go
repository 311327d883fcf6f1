package mitekimport

import (
	"strings"

	"github.com/DaleTiley/timber-roof-erp/models"
)

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// CategorizeVariable buckets a Pamir variable by its name. The export
// carries no type information, so naming conventions are all there is.
func CategorizeVariable(name string) models.VariableCategory {
	upper := strings.ToUpper(name)

	switch {
	case containsAny(upper, "LENGTH", "WIDTH", "HEIGHT", "SPAN"):
		return models.VariableCategoryDimension
	case containsAny(upper, "AREA", "COVERAGE"):
		return models.VariableCategoryArea
	case containsAny(upper, "COUNT", "QTY", "NUMBER"):
		return models.VariableCategoryCount
	case containsAny(upper, "ANGLE", "PITCH", "SLOPE"):
		return models.VariableCategoryAngle
	case containsAny(upper, "WEIGHT", "LOAD"):
		return models.VariableCategoryWeight
	default:
		return models.VariableCategoryOther
	}
}

// DetermineUnit guesses the measurement unit from the variable name, again
// by the export's naming conventions. Unknown names get no unit.
func DetermineUnit(name string) string {
	upper := strings.ToUpper(name)

	switch {
	case strings.Contains(upper, "AREA"):
		return "m²"
	case containsAny(upper, "LENGTH", "WIDTH", "HEIGHT", "SPAN"):
		return "mm"
	case containsAny(upper, "ANGLE", "PITCH"):
		return "°"
	case strings.Contains(upper, "WEIGHT"):
		return "kg"
	case containsAny(upper, "COUNT", "QTY", "NUMBER"):
		return "ea"
	default:
		return ""
	}
}
