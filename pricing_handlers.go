package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/DaleTiley/timber-roof-erp/models"
	"github.com/DaleTiley/timber-roof-erp/utils"
	"github.com/DaleTiley/timber-roof-erp/workflow"
)

// The pricing endpoints are stateless: the client posts the quote tree it is
// editing and gets the recalculated tree back. Persistence is a separate
// concern handled by the document CRUD surface.

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return false
	}
	return true
}

func pathInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return value, true
}

type calculateQuoteRequest struct {
	Quote models.Quote `json:"quote" binding:"required"`
}

func calculateQuotePricingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req calculateQuoteRequest
		if !bindJSON(c, &req) {
			return
		}

		workflow.CalculateQuoteTotals(&req.Quote)

		c.JSON(http.StatusOK, gin.H{"success": true, "quote": req.Quote})
	}
}

type quoteItemUpdate struct {
	Quantity          *decimal.Decimal `json:"quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
	MarginPercent     *decimal.Decimal `json:"margin_percent"`
	DiscountPercent   *decimal.Decimal `json:"discount_percent"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
}

type updateQuoteItemRequest struct {
	Quote models.Quote    `json:"quote" binding:"required"`
	Item  quoteItemUpdate `json:"item"`
}

func updateQuoteItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemId, ok := pathInt(c, "itemId")
		if !ok {
			return
		}
		var req updateQuoteItemRequest
		if !bindJSON(c, &req) {
			return
		}

		found := false
		for g := range req.Quote.Groups {
			for i := range req.Quote.Groups[g].Items {
				item := &req.Quote.Groups[g].Items[i]
				if item.ID != itemId {
					continue
				}
				found = true
				if req.Item.Quantity != nil {
					item.Quantity = *req.Item.Quantity
				}
				if req.Item.UnitCost != nil {
					item.UnitCost = *req.Item.UnitCost
				}
				if req.Item.MarginPercent != nil {
					item.MarginPercent = *req.Item.MarginPercent
				}
				if req.Item.DiscountPercent != nil {
					item.DiscountPercent = *req.Item.DiscountPercent
				}
				if req.Item.CommissionPercent != nil {
					item.CommissionPercent = *req.Item.CommissionPercent
				}
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found in quote"})
			return
		}

		workflow.CalculateQuoteTotals(&req.Quote)

		c.JSON(http.StatusOK, gin.H{"success": true, "quote": req.Quote})
	}
}

type gpDistributionRequest struct {
	Quote            models.Quote     `json:"quote" binding:"required"`
	TargetGpPercent  *decimal.Decimal `json:"target_gp_percent" binding:"required"`
	SelectedGroupIds []int            `json:"selected_group_ids" binding:"required"`
}

func gpDistributionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req gpDistributionRequest
		if !bindJSON(c, &req) {
			return
		}

		if req.TargetGpPercent.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target GP percentage must be between 0 and 99.9"})
			return
		}

		err := workflow.DistributeGpAdjustment(&req.Quote, *req.TargetGpPercent, req.SelectedGroupIds)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"quote":   req.Quote,
			"message": "GP adjusted to " + req.TargetGpPercent.String() + "% across selected groups",
		})
	}
}

type bulkMarginRequest struct {
	Quote         models.Quote     `json:"quote" binding:"required"`
	MarginPercent *decimal.Decimal `json:"margin_percent" binding:"required"`
}

func bulkMarginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupId, ok := pathInt(c, "groupId")
		if !ok {
			return
		}
		var req bulkMarginRequest
		if !bindJSON(c, &req) {
			return
		}

		err := workflow.ApplyBulkMarginAdjustment(&req.Quote, groupId, *req.MarginPercent)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found in quote"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "quote": req.Quote})
	}
}

type bulkDiscountRequest struct {
	Quote           models.Quote     `json:"quote" binding:"required"`
	DiscountPercent *decimal.Decimal `json:"discount_percent" binding:"required"`
}

func bulkDiscountHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupId, ok := pathInt(c, "groupId")
		if !ok {
			return
		}
		var req bulkDiscountRequest
		if !bindJSON(c, &req) {
			return
		}

		err := workflow.ApplyBulkDiscountAdjustment(&req.Quote, groupId, *req.DiscountPercent)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found in quote"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "quote": req.Quote})
	}
}

type wasteCalculationRequest struct {
	BaseQuantity *decimal.Decimal `json:"base_quantity" binding:"required"`
	WastePercent decimal.Decimal  `json:"waste_percent"`
}

func wasteCalculationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wasteCalculationRequest
		if !bindJSON(c, &req) {
			return
		}

		final := workflow.CalculateWasteFactor(*req.BaseQuantity, req.WastePercent)

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"base_quantity":  req.BaseQuantity,
			"waste_percent":  req.WastePercent,
			"final_quantity": final,
		})
	}
}

type stockLengthRequest struct {
	RequiredLength *decimal.Decimal  `json:"required_length" binding:"required"`
	StockLengths   []decimal.Decimal `json:"stock_lengths"`
}

func stockLengthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req stockLengthRequest
		if !bindJSON(c, &req) {
			return
		}

		selectedLength, quantity := workflow.RoundUpToStockLength(*req.RequiredLength, req.StockLengths)
		totalSupplied := selectedLength.Mul(decimal.NewFromInt(int64(quantity)))

		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"selected_length": selectedLength,
			"quantity":        quantity,
			"total_supplied":  totalSupplied,
			"waste_length":    totalSupplied.Sub(*req.RequiredLength),
		})
	}
}

type compositePricingRequest struct {
	Recipe models.CompositeRate `json:"recipe" binding:"required"`
}

func compositePricingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req compositePricingRequest
		if !bindJSON(c, &req) {
			return
		}

		pricing := workflow.CalculateCompositeRatePricing(&req.Recipe)

		c.JSON(http.StatusOK, gin.H{"success": true, "pricing": pricing})
	}
}
