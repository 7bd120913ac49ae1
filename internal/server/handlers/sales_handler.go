package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleRequest is the sale form payload.
type SaleRequest struct {
	ProductID    string          `json:"product_id" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// ListSales renders the sales journal, newest first.
func (h *Handler) ListSales(c *gin.Context) {
	sales, err := h.reportingSvc.Sales(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// CommitSale records a sale, returning the journal row with computed profit.
func (h *Handler) CommitSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.engineSvc.CommitSale(c.Request.Context(), req.ProductID, req.Quantity, req.TotalRevenue)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}
