package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/domain/models"
	"github.com/caserito/atelier/internal/repository/sheets"
)

// ErrInvalidPurchase indicates a purchase without an ID, a name or a positive quantity.
var ErrInvalidPurchase = errors.New("purchase requires id, name and positive quantity")

// ErrInvalidProduct indicates a product without an ID or a name.
var ErrInvalidProduct = errors.New("product requires id and name")

// ErrInvalidRecipeLine indicates a recipe line without a positive quantity per unit.
var ErrInvalidRecipeLine = errors.New("recipe line requires a positive quantity per unit")

// ErrUnknownProduct indicates a recipe line referencing a product absent from the catalog.
var ErrUnknownProduct = errors.New("unknown product")

// ErrUnknownMaterial indicates a recipe line referencing a material absent from the ledger.
var ErrUnknownMaterial = errors.New("unknown material")

// Purchase is one raw-material buy as entered on the purchase form. TotalCost
// covers the whole lot, not one unit.
type Purchase struct {
	MaterialID       string
	Name             string
	Category         string
	Unit             string
	Quantity         float64
	TotalCost        decimal.Decimal
	ReorderThreshold float64
}

// Service maintains the inventory ledger, the product catalog and the recipe
// book. Material IDs are unique: a purchase for an existing ID merges into
// the row, adding stock and folding the lot cost into the quantity-weighted
// average unit cost, instead of appending a duplicate.
type Service struct {
	store  sheets.Store
	logger *zap.Logger
}

// NewService constructs the inventory service.
func NewService(store sheets.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Materials lists the ledger.
func (s *Service) Materials(ctx context.Context) ([]models.Material, error) {
	return s.store.Materials(ctx)
}

// Products lists the catalog.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.store.Products(ctx)
}

// RecipeFor lists the recipe lines of one product, materials in stable order.
func (s *Service) RecipeFor(ctx context.Context, productID string) ([]models.RecipeLine, error) {
	lines, err := s.store.RecipeLines(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecipeLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == productID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out, nil
}

// RegisterPurchase records a material buy. New IDs insert a ledger row; known
// IDs add stock and re-average the unit cost. Descriptive fields of an
// existing row are kept as-is.
func (s *Service) RegisterPurchase(ctx context.Context, p Purchase) (models.Material, error) {
	if p.MaterialID == "" || p.Name == "" || p.Quantity <= 0 {
		return models.Material{}, ErrInvalidPurchase
	}
	if p.TotalCost.IsNegative() {
		return models.Material{}, ErrInvalidPurchase
	}

	materials, err := s.store.Materials(ctx)
	if err != nil {
		return models.Material{}, fmt.Errorf("load materials: %w", err)
	}

	quantity := decimal.NewFromFloat(p.Quantity)
	merged := models.Material{}
	found := false
	for i := range materials {
		if materials[i].ID != p.MaterialID {
			continue
		}

		existing := materials[i]
		oldValue := existing.AverageUnitCost.Mul(decimal.NewFromFloat(existing.QuantityOnHand))
		newQuantity := decimal.NewFromFloat(existing.QuantityOnHand).Add(quantity)
		materials[i].QuantityOnHand = existing.QuantityOnHand + p.Quantity
		if newQuantity.IsPositive() {
			materials[i].AverageUnitCost = oldValue.Add(p.TotalCost).Div(newQuantity)
		}
		merged = materials[i]
		found = true
		break
	}

	if !found {
		merged = models.Material{
			ID:               p.MaterialID,
			Name:             p.Name,
			Category:         p.Category,
			QuantityOnHand:   p.Quantity,
			Unit:             p.Unit,
			ReorderThreshold: p.ReorderThreshold,
			AverageUnitCost:  p.TotalCost.Div(quantity),
		}
		materials = append(materials, merged)
	}

	if err := s.store.SaveMaterials(ctx, materials); err != nil {
		return models.Material{}, fmt.Errorf("persist materials: %w", err)
	}

	s.logger.Info("purchase registered",
		zap.String("material_id", p.MaterialID),
		zap.Float64("quantity", p.Quantity),
		zap.Bool("merged", found))

	return merged, nil
}

// RegisterProduct upserts a catalog entry. The finished-goods count of an
// existing product is owned by production commits and left untouched here.
func (s *Service) RegisterProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.ID == "" || product.Name == "" {
		return models.Product{}, ErrInvalidProduct
	}
	if product.SalePrice.IsNegative() {
		return models.Product{}, ErrInvalidProduct
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("load products: %w", err)
	}

	found := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i].Name = product.Name
			products[i].SalePrice = product.SalePrice
			product = products[i]
			found = true
			break
		}
	}
	if !found {
		product.QuantityFinished = 0
		products = append(products, product)
	}

	if err := s.store.SaveProducts(ctx, products); err != nil {
		return models.Product{}, fmt.Errorf("persist products: %w", err)
	}

	return product, nil
}

// UpsertRecipeLine adds or replaces one (product, material) requirement.
// Both references are checked against their tables; the store does not
// enforce referential integrity on its own.
func (s *Service) UpsertRecipeLine(ctx context.Context, line models.RecipeLine) error {
	if line.QuantityPerUnit <= 0 {
		return ErrInvalidRecipeLine
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if !containsProduct(products, line.ProductID) {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
	}

	materials, err := s.store.Materials(ctx)
	if err != nil {
		return fmt.Errorf("load materials: %w", err)
	}
	if !containsMaterial(materials, line.MaterialID) {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, line.MaterialID)
	}

	lines, err := s.store.RecipeLines(ctx)
	if err != nil {
		return fmt.Errorf("load recipe lines: %w", err)
	}

	replaced := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID && lines[i].MaterialID == line.MaterialID {
			lines[i].QuantityPerUnit = line.QuantityPerUnit
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, line)
	}

	if err := s.store.SaveRecipeLines(ctx, lines); err != nil {
		return fmt.Errorf("persist recipe lines: %w", err)
	}

	return nil
}

func containsProduct(products []models.Product, id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func containsMaterial(materials []models.Material, id string) bool {
	for _, m := range materials {
		if m.ID == id {
			return true
		}
	}
	return false
}
