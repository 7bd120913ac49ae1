package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/domain/models"
	"github.com/caserito/atelier/internal/repository/sheets"
)

// ErrProductNotFound indicates the referenced product ID is absent from the catalog.
var ErrProductNotFound = errors.New("product not found")

// ErrNoRecipe indicates the product has no bill of materials; production is
// blocked until the operator defines one.
var ErrNoRecipe = errors.New("no recipe defined for product")

// ErrDanglingReference indicates a recipe line points at a material that no
// longer exists in the ledger.
var ErrDanglingReference = errors.New("recipe references a missing material")

// ErrInsufficientStock indicates on-hand stock does not cover the request.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidBatchSize indicates a non-positive production batch.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

// ErrInvalidQuantity indicates a non-positive sale quantity.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Service is the production and costing engine. It joins the recipe book
// against the inventory ledger to answer "can we build this batch", applies
// the two-table stock deltas of a confirmed production, and computes the
// per-unit material cost feeding sale profit.
//
// Profit is computed from the average unit cost of materials at sale time,
// not at production time, so profit on older inventory drifts when material
// costs change. That matches the original dashboard's behavior and is pinned
// by tests rather than silently changed.
type Service struct {
	store  sheets.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the engine over the given table store.
func NewService(store sheets.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ComputeRequirement joins every recipe line of the product against current
// material stock for a batch of the given size. It is a pure read: calling it
// twice with unchanged stock yields identical output. A product with no
// recipe yields a requirement with zero lines, which is never feasible; the
// caller distinguishes that case with NoRecipe. A line referencing a deleted
// material is kept and flagged Missing rather than dropped.
func (s *Service) ComputeRequirement(ctx context.Context, productID string, batchSize int) (models.Requirement, error) {
	if batchSize <= 0 {
		return models.Requirement{}, ErrInvalidBatchSize
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Requirement{}, fmt.Errorf("load products: %w", err)
	}
	if _, ok := findProduct(products, productID); !ok {
		return models.Requirement{}, ErrProductNotFound
	}

	recipeLines, err := s.store.RecipeLines(ctx)
	if err != nil {
		return models.Requirement{}, fmt.Errorf("load recipe lines: %w", err)
	}

	materials, err := s.store.Materials(ctx)
	if err != nil {
		return models.Requirement{}, fmt.Errorf("load materials: %w", err)
	}

	ledger := make(map[string]models.Material, len(materials))
	for _, m := range materials {
		ledger[m.ID] = m
	}

	req := models.Requirement{ProductID: productID, BatchSize: batchSize}
	for _, line := range recipeLines {
		if line.ProductID != productID {
			continue
		}

		required := line.QuantityPerUnit * float64(batchSize)
		material, ok := ledger[line.MaterialID]
		if !ok {
			s.logger.Warn("dangling recipe reference",
				zap.String("product_id", productID),
				zap.String("material_id", line.MaterialID))
			req.Lines = append(req.Lines, models.RequirementLine{
				MaterialID: line.MaterialID,
				Required:   required,
				Missing:    true,
			})
			continue
		}

		projected := material.QuantityOnHand - required
		req.Lines = append(req.Lines, models.RequirementLine{
			MaterialID:     material.ID,
			MaterialName:   material.Name,
			Unit:           material.Unit,
			QuantityOnHand: material.QuantityOnHand,
			Required:       required,
			Projected:      projected,
			Sufficient:     projected >= 0,
		})
	}

	return req, nil
}

// NoRecipe reports whether the requirement describes a product with no bill
// of materials. Recipe lines are the only source of requirement lines, so
// zero lines always means "no recipe", never "feasible with zero needs".
func NoRecipe(req models.Requirement) bool {
	return len(req.Lines) == 0
}

// ComputeUnitCost sums quantity-per-unit times current average unit cost over
// the product's recipe. A product without a recipe costs zero by design; this
// is deliberately a different rule than feasibility, where an empty recipe
// blocks production, and the two do not share a code path.
func (s *Service) ComputeUnitCost(ctx context.Context, productID string) (decimal.Decimal, error) {
	recipeLines, err := s.store.RecipeLines(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load recipe lines: %w", err)
	}

	materials, err := s.store.Materials(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load materials: %w", err)
	}

	costs := make(map[string]decimal.Decimal, len(materials))
	for _, m := range materials {
		costs[m.ID] = m.AverageUnitCost
	}

	total := decimal.Zero
	for _, line := range recipeLines {
		if line.ProductID != productID {
			continue
		}
		cost, ok := costs[line.MaterialID]
		if !ok {
			// Dangling lines contribute nothing here; feasibility is where
			// they block.
			continue
		}
		total = total.Add(cost.Mul(decimal.NewFromFloat(line.QuantityPerUnit)))
	}

	return total, nil
}

// CommitProduction validates feasibility against fresh reads and, if the
// batch is buildable, applies the stock deltas: every consumed material drops
// to its projected quantity and the product's finished count rises by the
// batch size. Both tables are persisted; if the second write fails, a
// compensating write restores the first so the store is not left half
// committed, and the operation reports failure. Nothing is presented as
// saved unless both writes succeed.
func (s *Service) CommitProduction(ctx context.Context, productID string, batchSize int) (models.Requirement, error) {
	req, err := s.ComputeRequirement(ctx, productID, batchSize)
	if err != nil {
		return models.Requirement{}, err
	}

	if NoRecipe(req) {
		return req, ErrNoRecipe
	}
	for _, line := range req.Lines {
		if line.Missing {
			return req, fmt.Errorf("%w: %s", ErrDanglingReference, line.MaterialID)
		}
	}
	if !req.Feasible() {
		return req, ErrInsufficientStock
	}

	materials, err := s.store.Materials(ctx)
	if err != nil {
		return req, fmt.Errorf("load materials: %w", err)
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return req, fmt.Errorf("load products: %w", err)
	}

	previousMaterials := append([]models.Material(nil), materials...)

	projected := make(map[string]float64, len(req.Lines))
	for _, line := range req.Lines {
		projected[line.MaterialID] = line.Projected
	}
	for i := range materials {
		if value, ok := projected[materials[i].ID]; ok {
			materials[i].QuantityOnHand = value
		}
	}

	for i := range products {
		if products[i].ID == productID {
			products[i].QuantityFinished += batchSize
		}
	}

	if err := s.store.SaveMaterials(ctx, materials); err != nil {
		return req, fmt.Errorf("persist materials: %w", err)
	}
	if err := s.store.SaveProducts(ctx, products); err != nil {
		if restoreErr := s.store.SaveMaterials(ctx, previousMaterials); restoreErr != nil {
			s.logger.Error("compensating materials write failed, store left inconsistent",
				zap.String("product_id", productID),
				zap.Error(restoreErr))
			s.store.Invalidate(sheets.TableMaterials)
		}
		return req, fmt.Errorf("persist products: %w", err)
	}

	s.logger.Info("production committed",
		zap.String("product_id", productID),
		zap.Int("batch_size", batchSize),
		zap.Int("materials_consumed", len(req.Lines)))

	return req, nil
}

// CommitSale checks finished-goods stock, appends a journal row with profit
// computed as revenue minus unit cost times quantity, and decrements the
// product's finished count. A sale exceeding available stock is rejected
// outright: no journal row, no mutation.
func (s *Service) CommitSale(ctx context.Context, productID string, quantity int, totalRevenue decimal.Decimal) (models.SaleEvent, error) {
	if quantity <= 0 {
		return models.SaleEvent{}, ErrInvalidQuantity
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.SaleEvent{}, fmt.Errorf("load products: %w", err)
	}
	product, ok := findProduct(products, productID)
	if !ok {
		return models.SaleEvent{}, ErrProductNotFound
	}
	if quantity > product.QuantityFinished {
		return models.SaleEvent{}, fmt.Errorf("%w: %d requested, %d finished", ErrInsufficientStock, quantity, product.QuantityFinished)
	}

	unitCost, err := s.ComputeUnitCost(ctx, productID)
	if err != nil {
		return models.SaleEvent{}, err
	}

	event := models.SaleEvent{
		Date:         s.now(),
		ProductID:    productID,
		Quantity:     quantity,
		TotalRevenue: totalRevenue,
		Profit:       totalRevenue.Sub(unitCost.Mul(decimal.NewFromInt(int64(quantity)))),
	}

	journal, err := s.store.Sales(ctx)
	if err != nil {
		return models.SaleEvent{}, fmt.Errorf("load sales journal: %w", err)
	}
	previousJournal := append([]models.SaleEvent(nil), journal...)

	for i := range products {
		if products[i].ID == productID {
			products[i].QuantityFinished -= quantity
		}
	}

	if err := s.store.SaveSales(ctx, append(journal, event)); err != nil {
		return models.SaleEvent{}, fmt.Errorf("persist sales journal: %w", err)
	}
	if err := s.store.SaveProducts(ctx, products); err != nil {
		if restoreErr := s.store.SaveSales(ctx, previousJournal); restoreErr != nil {
			s.logger.Error("compensating journal write failed, store left inconsistent",
				zap.String("product_id", productID),
				zap.Error(restoreErr))
			s.store.Invalidate(sheets.TableSales)
		}
		return models.SaleEvent{}, fmt.Errorf("persist products: %w", err)
	}

	s.logger.Info("sale committed",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("profit", event.Profit.String()))

	return event, nil
}

func findProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
