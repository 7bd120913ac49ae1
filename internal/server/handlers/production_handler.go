package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/service/engine"
)

// ProductionRequest identifies a proposed or confirmed production batch.
type ProductionRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	BatchSize int    `json:"batch_size" binding:"required"`
}

// PlanProduction computes the material breakdown for a batch without
// committing anything. The shell renders it as the confirmation screen:
// per-material on-hand, required, projected and sufficient, plus the overall
// feasibility flag and the unit cost the batch would carry.
func (h *Handler) PlanProduction(c *gin.Context) {
	var req ProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	requirement, err := h.engineSvc.ComputeRequirement(c.Request.Context(), req.ProductID, req.BatchSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	unitCost, err := h.engineSvc.ComputeUnitCost(c.Request.Context(), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requirement": requirement,
		"feasible":    requirement.Feasible(),
		"no_recipe":   engine.NoRecipe(requirement),
		"unit_cost":   unitCost,
	})
}

// CommitProduction applies a confirmed batch: materials down, finished goods
// up, both tables persisted.
func (h *Handler) CommitProduction(c *gin.Context) {
	var req ProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	requirement, err := h.engineSvc.CommitProduction(c.Request.Context(), req.ProductID, req.BatchSize)
	if err != nil {
		// Infeasible commits carry the per-material breakdown so the shell
		// can show which materials fall short.
		if errors.Is(err, engine.ErrInsufficientStock) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "requirement": requirement})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requirement": requirement, "committed": true})
}
