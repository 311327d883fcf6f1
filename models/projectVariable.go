package models

import (
	"context"
	"fmt"
	"time"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectVariable is one named measurement imported from a Pamir design
// export (or entered by hand) for a quote, tender, order or project.
type ProjectVariable struct {
	ID int `gorm:"primary_key" json:"id"`

	ReferenceType   ReferenceType `gorm:"size:20;index:idx_variable_reference;not null" json:"reference_type" binding:"required"`
	ReferenceId     int           `gorm:"index:idx_variable_reference;not null" json:"reference_id" binding:"required"`
	ReferenceNumber string        `gorm:"size:50" json:"reference_number"`

	VariableName  string          `gorm:"size:100;not null" json:"variable_name" binding:"required"`
	VariableValue decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"variable_value"`
	VariableUnit  string          `gorm:"size:20" json:"variable_unit"`

	SourceSystem  string `gorm:"size:50;default:MITEK_PAMIR" json:"source_system"`
	SourceFile    string `gorm:"size:200" json:"source_file"`
	ImportBatchId string `gorm:"size:50;index" json:"import_batch_id"`

	Category    VariableCategory `gorm:"size:50" json:"category"`
	Description string           `gorm:"size:200" json:"description"`

	TimesUsedInFormulas int        `gorm:"default:0" json:"times_used_in_formulas"`
	LastUsedDate        *time.Time `json:"last_used_date"`

	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	ImportDate time.Time `gorm:"autoCreateTime" json:"import_date"`
	ImportedBy string    `gorm:"size:100" json:"imported_by"`
}

func variableCacheKey(refType ReferenceType, refId int) string {
	return fmt.Sprintf("project-variables:%s:%d", refType, refId)
}

// LoadVariableMap assembles the flat name -> value binding set for one
// reference, with a short-lived redis cache in front of the database.
// Imports invalidate the cache through InvalidateVariableCache.
func LoadVariableMap(ctx context.Context, db *gorm.DB, refType ReferenceType, refId int) (map[string]decimal.Decimal, error) {
	cacheKey := variableCacheKey(refType, refId)

	cached := map[string]decimal.Decimal{}
	if found, err := config.GetRedisObject(cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	var variables []ProjectVariable
	err := db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ? AND is_active = ?", refType, refId, true).
		Order("variable_name").
		Find(&variables).Error
	if err != nil {
		return nil, err
	}

	vars := make(map[string]decimal.Decimal, len(variables))
	for _, v := range variables {
		vars[v.VariableName] = v.VariableValue
	}

	_ = config.SetRedisObject(cacheKey, vars, 5*time.Minute)

	return vars, nil
}

func InvalidateVariableCache(refType ReferenceType, refId int) {
	_ = config.DeleteRedisKey(variableCacheKey(refType, refId))
}
