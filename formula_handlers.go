package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DaleTiley/timber-roof-erp/config"
	"github.com/DaleTiley/timber-roof-erp/formula"
	"github.com/DaleTiley/timber-roof-erp/mitekimport"
	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/DaleTiley/timber-roof-erp/workflow"
)

type validateFormulaRequest struct {
	FormulaExpression string `json:"formula_expression" binding:"required"`
}

func validateFormulaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateFormulaRequest
		if !bindJSON(c, &req) {
			return
		}

		variables := formula.ExtractVariables(req.FormulaExpression)
		if err := formula.ValidateSyntax(req.FormulaExpression); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"is_valid":  false,
				"error":     err.Error(),
				"variables": variables,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"is_valid":  true,
			"variables": variables,
		})
	}
}

type testFormulaRequest struct {
	Variables     map[string]decimal.Decimal `json:"variables" binding:"required"`
	ReferenceType models.ReferenceType       `json:"reference_type"`
	ReferenceId   int                        `json:"reference_id"`
}

// testFormulaHandler evaluates the current version of a stored formula
// against caller-supplied variables. The run is logged and counted like any
// other evaluation, so test traffic shows up in the usage statistics.
func testFormulaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		var req testFormulaRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()
		db := config.GetDB()

		f, err := models.CurrentFormulaByCode(ctx, db, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "formula " + code + " not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		calcCtx := workflow.CalculationContext{
			ReferenceType: req.ReferenceType,
			ReferenceId:   req.ReferenceId,
		}
		if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
			calcCtx.CorrelationId = cid
		}
		if username, ok := utils.GetUsernameFromContext(ctx); ok {
			calcCtx.CalculatedBy = username
		}

		result, warnings, err := workflow.EvaluateFormula(ctx, db, f, req.Variables, calcCtx)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "warnings": warnings})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"result":   result,
			"warnings": warnings,
			"formula":  f.Code,
			"version":  f.VersionNumber,
		})
	}
}

// importVariablesHandler accepts a multipart Pamir variables workbook and
// replaces the reference's project variables with its contents.
func importVariablesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		refType := models.ReferenceType(c.PostForm("reference_type"))
		if refType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference_type is required"})
			return
		}
		refId, err := strconv.Atoi(c.PostForm("reference_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference_id must be an integer"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		ctx := c.Request.Context()
		importedBy := ""
		if username, ok := utils.GetUsernameFromContext(ctx); ok {
			importedBy = username
		}

		result, err := mitekimport.ImportVariables(
			ctx, config.GetDB(), file,
			refType, refId,
			c.PostForm("reference_number"),
			fileHeader.Filename,
			importedBy,
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
	}
}
