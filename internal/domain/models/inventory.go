package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a raw input (fabric, lining, thread, fasteners) tracked by
// on-hand quantity and weighted-average unit cost.
type Material struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	QuantityOnHand   float64         `json:"quantity_on_hand"`
	Unit             string          `json:"unit"`
	ReorderThreshold float64         `json:"reorder_threshold"`
	AverageUnitCost  decimal.Decimal `json:"average_unit_cost"`
}

// BelowThreshold reports whether on-hand stock has fallen under the reorder mark.
func (m Material) BelowThreshold() bool {
	return m.QuantityOnHand < m.ReorderThreshold
}

// Product is a finished good assembled from materials.
type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	QuantityFinished int             `json:"quantity_finished"`
}

// RecipeLine binds one material requirement to a product: building one unit
// of the product consumes QuantityPerUnit of the material.
type RecipeLine struct {
	ProductID       string  `json:"product_id"`
	MaterialID      string  `json:"material_id"`
	QuantityPerUnit float64 `json:"quantity_per_unit"`
}

// SaleEvent is one row of the append-only sales journal. Rows are never
// mutated or deleted after creation.
type SaleEvent struct {
	Date         time.Time       `json:"date"`
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Profit       decimal.Decimal `json:"profit"`
}

// MaterialCategories and MaterialUnits are the option lists offered by the
// purchase form.
var (
	MaterialCategories = []string{"Tela", "Forro", "Avíos (Botones/Cierres)", "Hilos", "Otros"}
	MaterialUnits      = []string{"Metros", "Unidades", "Conos", "Yardas"}
)
