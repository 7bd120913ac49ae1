package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/repository/sheets"
	"github.com/caserito/atelier/internal/service/engine"
	"github.com/caserito/atelier/internal/service/inventory"
	"github.com/caserito/atelier/internal/service/reporting"
)

// Handler adapts the dashboard services to HTTP. Every endpoint is one
// user action: read what it needs, compute, optionally commit, respond.
type Handler struct {
	inventorySvc *inventory.Service
	engineSvc    *engine.Service
	reportingSvc *reporting.Service
	store        sheets.Store
	logger       *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(inventorySvc *inventory.Service, engineSvc *engine.Service, reportingSvc *reporting.Service, store sheets.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		inventorySvc: inventorySvc,
		engineSvc:    engineSvc,
		reportingSvc: reportingSvc,
		store:        store,
		logger:       logger,
	}
}

// respondError maps service errors onto the HTTP surface. Anything not in
// the taxonomy is treated as a store failure and surfaced verbatim; the
// operator retries manually, nothing retries on its own.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrProductNotFound),
		errors.Is(err, inventory.ErrUnknownProduct),
		errors.Is(err, inventory.ErrUnknownMaterial):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrDanglingReference):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "dangling_reference": true})
	case errors.Is(err, engine.ErrNoRecipe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "no_recipe": true})
	case errors.Is(err, engine.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidBatchSize),
		errors.Is(err, engine.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidPurchase),
		errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, inventory.ErrInvalidRecipeLine):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("store operation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
