package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

// FormulaStatsLock serializes usage-statistic writes for one formula across
// instances. Returns a release func; callers must defer it.
func FormulaStatsLock(ctx context.Context, formulaCode string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Avoid nil-pointer panics when the redis lock isn't initialized yet.
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", formulaCode, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("formula-stats:%s", formulaCode)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for formula", formulaCode, err)
		return nil, errors.New("could not obtain lock for formula " + formulaCode)
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for formula", formulaCode, err)
		return nil, err
	}
	return func() {
		_ = lock.Release(ctx)
	}, nil
}
