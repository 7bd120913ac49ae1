package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockItem describes a material whose stock has fallen below its reorder
// threshold.
type LowStockItem struct {
	MaterialID       string  `json:"material_id"`
	Name             string  `json:"name"`
	QuantityOnHand   float64 `json:"quantity_on_hand"`
	ReorderThreshold float64 `json:"reorder_threshold"`
	Unit             string  `json:"unit"`
}

// Dashboard is the aggregate KPI view model rendered by the shell.
type Dashboard struct {
	MaterialCount      int             `json:"material_count"`
	ProductCount       int             `json:"product_count"`
	InventoryValue     decimal.Decimal `json:"inventory_value"`
	FinishedGoodsValue decimal.Decimal `json:"finished_goods_value"`
	SalesCount         int             `json:"sales_count"`
	SalesRevenue       decimal.Decimal `json:"sales_revenue"`
	SalesProfit        decimal.Decimal `json:"sales_profit"`
	LowStock           []LowStockItem  `json:"low_stock"`
}

// KPISnapshot is one historical dashboard capture persisted to MongoDB by the
// nightly job.
type KPISnapshot struct {
	Date               time.Time `bson:"date" json:"date"`
	MaterialCount      int       `bson:"material_count" json:"material_count"`
	ProductCount       int       `bson:"product_count" json:"product_count"`
	InventoryValue     string    `bson:"inventory_value" json:"inventory_value"`
	FinishedGoodsValue string    `bson:"finished_goods_value" json:"finished_goods_value"`
	SalesCount         int       `bson:"sales_count" json:"sales_count"`
	SalesRevenue       string    `bson:"sales_revenue" json:"sales_revenue"`
	SalesProfit        string    `bson:"sales_profit" json:"sales_profit"`
	LowStockCount      int       `bson:"low_stock_count" json:"low_stock_count"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}
