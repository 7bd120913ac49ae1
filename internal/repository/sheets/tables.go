package sheets

import "fmt"

// TableName identifies one worksheet of the backing spreadsheet.
type TableName string

// Worksheet names match the original operator spreadsheet.
const (
	TableMaterials TableName = "Insumos"
	TableProducts  TableName = "Productos"
	TableRecipes   TableName = "Recetas"
	TableSales     TableName = "Ventas"
)

// Table describes a worksheet and its canonical column set. An empty or
// missing worksheet is always presented to callers as a table with exactly
// this header and zero data rows.
type Table struct {
	Name   TableName
	Header []string
}

var (
	materialsTable = Table{
		Name:   TableMaterials,
		Header: []string{"ID", "Nombre", "Categoria", "Stock_Actual", "Unidad", "Stock_Minimo", "Costo_Promedio"},
	}
	productsTable = Table{
		Name:   TableProducts,
		Header: []string{"ID", "Nombre", "Precio_Venta", "Stock_Terminado"},
	}
	recipesTable = Table{
		Name:   TableRecipes,
		Header: []string{"Producto_ID", "Insumo_ID", "Cantidad_Por_Unidad"},
	}
	salesTable = Table{
		Name:   TableSales,
		Header: []string{"Fecha", "Producto_ID", "Cantidad", "Ingreso_Total", "Ganancia"},
	}
)

// Range returns the whole-table A1 range covering the canonical columns.
func (t Table) Range() string {
	return fmt.Sprintf("%s!A:%s", t.Name, columnLetter(len(t.Header)))
}

func columnLetter(n int) string {
	// Worksheets here never exceed 26 columns.
	return string(rune('A' + n - 1))
}
