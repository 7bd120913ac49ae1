package reporting

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook renders the whole dashboard as an xlsx workbook: one sheet
// per table plus a KPI summary sheet.
func (s *Service) ExportWorkbook(ctx context.Context) (*bytes.Buffer, error) {
	materials, err := s.store.Materials(ctx)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	sales, err := s.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	dash, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Insumos"); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"ID", "Nombre", "Categoria", "Stock_Actual", "Unidad", "Stock_Minimo", "Costo_Promedio"}
	if err := f.SetSheetRow("Insumos", "A1", &header); err != nil {
		return nil, fmt.Errorf("write materials header: %w", err)
	}
	for i, m := range materials {
		row := []interface{}{m.ID, m.Name, m.Category, m.QuantityOnHand, m.Unit, m.ReorderThreshold, m.AverageUnitCost.String()}
		if err := f.SetSheetRow("Insumos", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("write materials row: %w", err)
		}
	}

	if _, err := f.NewSheet("Productos"); err != nil {
		return nil, fmt.Errorf("create products sheet: %w", err)
	}
	header = []interface{}{"ID", "Nombre", "Precio_Venta", "Stock_Terminado"}
	if err := f.SetSheetRow("Productos", "A1", &header); err != nil {
		return nil, fmt.Errorf("write products header: %w", err)
	}
	for i, p := range products {
		row := []interface{}{p.ID, p.Name, p.SalePrice.String(), p.QuantityFinished}
		if err := f.SetSheetRow("Productos", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("write products row: %w", err)
		}
	}

	if _, err := f.NewSheet("Ventas"); err != nil {
		return nil, fmt.Errorf("create sales sheet: %w", err)
	}
	header = []interface{}{"Fecha", "Producto_ID", "Cantidad", "Ingreso_Total", "Ganancia"}
	if err := f.SetSheetRow("Ventas", "A1", &header); err != nil {
		return nil, fmt.Errorf("write sales header: %w", err)
	}
	for i, sale := range sales {
		row := []interface{}{sale.Date.Format("2006-01-02"), sale.ProductID, sale.Quantity, sale.TotalRevenue.String(), sale.Profit.String()}
		if err := f.SetSheetRow("Ventas", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("write sales row: %w", err)
		}
	}

	if _, err := f.NewSheet("KPIs"); err != nil {
		return nil, fmt.Errorf("create kpi sheet: %w", err)
	}
	kpiRows := [][]interface{}{
		{"Metric", "Value"},
		{"Materials", dash.MaterialCount},
		{"Products", dash.ProductCount},
		{"Inventory value", dash.InventoryValue.String()},
		{"Finished goods value", dash.FinishedGoodsValue.String()},
		{"Sales", dash.SalesCount},
		{"Sales revenue", dash.SalesRevenue.String()},
		{"Sales profit", dash.SalesProfit.String()},
		{"Materials below threshold", len(dash.LowStock)},
	}
	for i := range kpiRows {
		if err := f.SetSheetRow("KPIs", fmt.Sprintf("A%d", i+1), &kpiRows[i]); err != nil {
			return nil, fmt.Errorf("write kpi row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}
