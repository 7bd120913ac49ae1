package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/domain/models"
	"github.com/caserito/atelier/internal/service/inventory"
)

// PurchaseRequest is the purchase form payload. TotalCost is the cost of the
// whole lot.
type PurchaseRequest struct {
	MaterialID       string          `json:"material_id" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	Quantity         float64         `json:"quantity" binding:"required"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	ReorderThreshold float64         `json:"reorder_threshold"`
}

// ProductRequest is the product registration payload.
type ProductRequest struct {
	ID        string          `json:"id" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// RecipeLineRequest is the recipe form payload.
type RecipeLineRequest struct {
	ProductID       string  `json:"product_id" binding:"required"`
	MaterialID      string  `json:"material_id" binding:"required"`
	QuantityPerUnit float64 `json:"quantity_per_unit" binding:"required"`
}

// ListMaterials renders the inventory ledger.
func (h *Handler) ListMaterials(c *gin.Context) {
	materials, err := h.inventorySvc.Materials(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"materials":  materials,
		"categories": models.MaterialCategories,
		"units":      models.MaterialUnits,
	})
}

// RegisterPurchase records a raw-material buy, merging into an existing
// ledger row when the ID is known.
func (h *Handler) RegisterPurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid purchase payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	material, err := h.inventorySvc.RegisterPurchase(c.Request.Context(), inventory.Purchase{
		MaterialID:       req.MaterialID,
		Name:             req.Name,
		Category:         req.Category,
		Unit:             req.Unit,
		Quantity:         req.Quantity,
		TotalCost:        req.TotalCost,
		ReorderThreshold: req.ReorderThreshold,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

// ListProducts renders the finished-goods catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.inventorySvc.Products(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// RegisterProduct upserts a catalog entry.
func (h *Handler) RegisterProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.inventorySvc.RegisterProduct(c.Request.Context(), models.Product{
		ID:        req.ID,
		Name:      req.Name,
		SalePrice: req.SalePrice,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetRecipe renders the recipe lines of one product.
func (h *Handler) GetRecipe(c *gin.Context) {
	productID := c.Param("productID")
	lines, err := h.inventorySvc.RecipeFor(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "lines": lines})
}

// UpsertRecipeLine adds or replaces one recipe line.
func (h *Handler) UpsertRecipeLine(c *gin.Context) {
	var req RecipeLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recipe payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	line := models.RecipeLine{
		ProductID:       req.ProductID,
		MaterialID:      req.MaterialID,
		QuantityPerUnit: req.QuantityPerUnit,
	}
	if err := h.inventorySvc.UpsertRecipeLine(c.Request.Context(), line); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, line)
}
