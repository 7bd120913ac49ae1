package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caserito/atelier/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Cell parsing is the single place spreadsheet text becomes typed values.
// Quantity and cost columns are hand-edited by the operator, so malformed
// cells are coerced to zero instead of failing the whole table load. That
// zero-default policy is deliberate and covered by tests.

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func cellFloat(row []interface{}, idx int) float64 {
	str := cellString(row, idx)
	if str == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(str, ",", "."), 64)
	if err != nil {
		return 0
	}
	return value
}

func cellInt(row []interface{}, idx int) int {
	// Integer-like columns sometimes carry "3.0" after spreadsheet edits.
	return int(cellFloat(row, idx))
}

func cellMoney(row []interface{}, idx int) decimal.Decimal {
	str := cellString(row, idx)
	if str == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(str, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return value
}

func cellDate(row []interface{}, idx int) time.Time {
	str := cellString(row, idx)
	if len(str) > len(dateLayout) {
		str = str[:len(dateLayout)]
	}
	value, err := time.Parse(dateLayout, str)
	if err != nil {
		return time.Time{}
	}
	return value
}

// dataRows strips the header row the store returns with every populated table.
func dataRows(rows [][]interface{}) [][]interface{} {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

func decodeMaterials(rows [][]interface{}) []models.Material {
	out := make([]models.Material, 0, len(rows))
	for _, row := range dataRows(rows) {
		id := cellString(row, 0)
		if id == "" {
			continue
		}
		out = append(out, models.Material{
			ID:               id,
			Name:             cellString(row, 1),
			Category:         cellString(row, 2),
			QuantityOnHand:   cellFloat(row, 3),
			Unit:             cellString(row, 4),
			ReorderThreshold: cellFloat(row, 5),
			AverageUnitCost:  cellMoney(row, 6),
		})
	}
	return out
}

func encodeMaterials(items []models.Material) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, m := range items {
		rows = append(rows, []interface{}{m.ID, m.Name, m.Category, m.QuantityOnHand, m.Unit, m.ReorderThreshold, m.AverageUnitCost.String()})
	}
	return rows
}

func decodeProducts(rows [][]interface{}) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, row := range dataRows(rows) {
		id := cellString(row, 0)
		if id == "" {
			continue
		}
		out = append(out, models.Product{
			ID:               id,
			Name:             cellString(row, 1),
			SalePrice:        cellMoney(row, 2),
			QuantityFinished: cellInt(row, 3),
		})
	}
	return out
}

func encodeProducts(items []models.Product) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, p := range items {
		rows = append(rows, []interface{}{p.ID, p.Name, p.SalePrice.String(), p.QuantityFinished})
	}
	return rows
}

func decodeRecipeLines(rows [][]interface{}) []models.RecipeLine {
	out := make([]models.RecipeLine, 0, len(rows))
	for _, row := range dataRows(rows) {
		productID := cellString(row, 0)
		materialID := cellString(row, 1)
		if productID == "" || materialID == "" {
			continue
		}
		out = append(out, models.RecipeLine{
			ProductID:       productID,
			MaterialID:      materialID,
			QuantityPerUnit: cellFloat(row, 2),
		})
	}
	return out
}

func encodeRecipeLines(items []models.RecipeLine) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, l := range items {
		rows = append(rows, []interface{}{l.ProductID, l.MaterialID, l.QuantityPerUnit})
	}
	return rows
}

func decodeSales(rows [][]interface{}) []models.SaleEvent {
	out := make([]models.SaleEvent, 0, len(rows))
	for _, row := range dataRows(rows) {
		productID := cellString(row, 1)
		if productID == "" {
			continue
		}
		out = append(out, models.SaleEvent{
			Date:         cellDate(row, 0),
			ProductID:    productID,
			Quantity:     cellInt(row, 2),
			TotalRevenue: cellMoney(row, 3),
			Profit:       cellMoney(row, 4),
		})
	}
	return out
}

func encodeSales(items []models.SaleEvent) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, s := range items {
		rows = append(rows, []interface{}{s.Date.Format(dateLayout), s.ProductID, s.Quantity, s.TotalRevenue.String(), s.Profit.String()})
	}
	return rows
}
