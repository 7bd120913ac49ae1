package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/domain/models"
	"github.com/caserito/atelier/internal/repository/sheets"
)

// SnapshotRepository persists historical KPI captures. The spreadsheet only
// holds current state, so trend data lives elsewhere.
type SnapshotRepository interface {
	SaveKPISnapshot(ctx context.Context, snapshot models.KPISnapshot) error
}

// Service computes the dashboard view model over the table store.
type Service struct {
	store     sheets.Store
	snapshots SnapshotRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. The snapshot repository
// may be nil; snapshots are then skipped.
func NewService(store sheets.Store, snapshots SnapshotRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Dashboard folds all four tables into the aggregate KPI view: inventory
// valuation at average cost, finished-goods valuation at sale price, sales
// totals from the journal and the low-stock list.
func (s *Service) Dashboard(ctx context.Context) (models.Dashboard, error) {
	materials, err := s.store.Materials(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load materials: %w", err)
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load products: %w", err)
	}
	sales, err := s.store.Sales(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load sales: %w", err)
	}

	dash := models.Dashboard{
		MaterialCount:      len(materials),
		ProductCount:       len(products),
		SalesCount:         len(sales),
		InventoryValue:     decimal.Zero,
		FinishedGoodsValue: decimal.Zero,
		SalesRevenue:       decimal.Zero,
		SalesProfit:        decimal.Zero,
		LowStock:           []models.LowStockItem{},
	}

	for _, m := range materials {
		dash.InventoryValue = dash.InventoryValue.Add(m.AverageUnitCost.Mul(decimal.NewFromFloat(m.QuantityOnHand)))
		if m.BelowThreshold() {
			dash.LowStock = append(dash.LowStock, models.LowStockItem{
				MaterialID:       m.ID,
				Name:             m.Name,
				QuantityOnHand:   m.QuantityOnHand,
				ReorderThreshold: m.ReorderThreshold,
				Unit:             m.Unit,
			})
		}
	}
	sort.Slice(dash.LowStock, func(i, j int) bool { return dash.LowStock[i].MaterialID < dash.LowStock[j].MaterialID })

	for _, p := range products {
		dash.FinishedGoodsValue = dash.FinishedGoodsValue.Add(p.SalePrice.Mul(decimal.NewFromInt(int64(p.QuantityFinished))))
	}

	for _, sale := range sales {
		dash.SalesRevenue = dash.SalesRevenue.Add(sale.TotalRevenue)
		dash.SalesProfit = dash.SalesProfit.Add(sale.Profit)
	}

	return dash, nil
}

// Sales lists the journal, newest first.
func (s *Service) Sales(ctx context.Context) ([]models.SaleEvent, error) {
	sales, err := s.store.Sales(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	return sales, nil
}

// SnapshotKPIs captures the current dashboard into the snapshot history.
func (s *Service) SnapshotKPIs(ctx context.Context) (models.KPISnapshot, error) {
	dash, err := s.Dashboard(ctx)
	if err != nil {
		return models.KPISnapshot{}, err
	}

	now := s.now().UTC()
	snapshot := models.KPISnapshot{
		Date:               time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		MaterialCount:      dash.MaterialCount,
		ProductCount:       dash.ProductCount,
		InventoryValue:     dash.InventoryValue.String(),
		FinishedGoodsValue: dash.FinishedGoodsValue.String(),
		SalesCount:         dash.SalesCount,
		SalesRevenue:       dash.SalesRevenue.String(),
		SalesProfit:        dash.SalesProfit.String(),
		LowStockCount:      len(dash.LowStock),
		CreatedAt:          now,
	}

	if s.snapshots == nil {
		s.logger.Debug("snapshot repository not configured, skipping persistence")
		return snapshot, nil
	}

	if err := s.snapshots.SaveKPISnapshot(ctx, snapshot); err != nil {
		return models.KPISnapshot{}, fmt.Errorf("persist kpi snapshot: %w", err)
	}

	return snapshot, nil
}

// LowStockMessage renders the low-stock list as a short alert text, or an
// empty string when nothing is below threshold.
func (s *Service) LowStockMessage(ctx context.Context) (string, error) {
	dash, err := s.Dashboard(ctx)
	if err != nil {
		return "", err
	}

	if len(dash.LowStock) == 0 {
		return "", nil
	}

	msg := fmt.Sprintf("Low stock alert (%d materials):", len(dash.LowStock))
	for _, item := range dash.LowStock {
		msg += fmt.Sprintf("\n- %s (%s): %.2f %s on hand, reorder at %.2f", item.Name, item.MaterialID, item.QuantityOnHand, item.Unit, item.ReorderThreshold)
	}
	return msg, nil
}
