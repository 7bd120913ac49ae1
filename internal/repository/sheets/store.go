package sheets

import (
	"context"

	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/domain/models"
)

// Store is the typed table gateway the services program against. Reads hand
// back fully decoded rows with the zero-default numeric policy already
// applied; writes replace the whole table. Invalidate drops any memoized
// reads so the next load reflects the store (a no-op on the uncached store).
type Store interface {
	Materials(ctx context.Context) ([]models.Material, error)
	SaveMaterials(ctx context.Context, items []models.Material) error
	Products(ctx context.Context) ([]models.Product, error)
	SaveProducts(ctx context.Context, items []models.Product) error
	RecipeLines(ctx context.Context) ([]models.RecipeLine, error)
	SaveRecipeLines(ctx context.Context, items []models.RecipeLine) error
	Sales(ctx context.Context) ([]models.SaleEvent, error)
	SaveSales(ctx context.Context, items []models.SaleEvent) error
	Invalidate(tables ...TableName)
}

// TableStore binds the raw spreadsheet repository to the typed row codec.
type TableStore struct {
	repo   Repository
	logger *zap.Logger
}

// NewTableStore wires a typed store over the raw repository.
func NewTableStore(repo Repository, logger *zap.Logger) *TableStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableStore{repo: repo, logger: logger}
}

// Materials loads the raw-material ledger.
func (s *TableStore) Materials(ctx context.Context) ([]models.Material, error) {
	rows, err := s.repo.ReadTable(ctx, materialsTable)
	if err != nil {
		return nil, err
	}
	return decodeMaterials(rows), nil
}

// SaveMaterials replaces the raw-material ledger.
func (s *TableStore) SaveMaterials(ctx context.Context, items []models.Material) error {
	return s.repo.WriteTable(ctx, materialsTable, encodeMaterials(items))
}

// Products loads the finished-goods catalog.
func (s *TableStore) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ReadTable(ctx, productsTable)
	if err != nil {
		return nil, err
	}
	return decodeProducts(rows), nil
}

// SaveProducts replaces the finished-goods catalog.
func (s *TableStore) SaveProducts(ctx context.Context, items []models.Product) error {
	return s.repo.WriteTable(ctx, productsTable, encodeProducts(items))
}

// RecipeLines loads the bill-of-materials table.
func (s *TableStore) RecipeLines(ctx context.Context) ([]models.RecipeLine, error) {
	rows, err := s.repo.ReadTable(ctx, recipesTable)
	if err != nil {
		return nil, err
	}
	return decodeRecipeLines(rows), nil
}

// SaveRecipeLines replaces the bill-of-materials table.
func (s *TableStore) SaveRecipeLines(ctx context.Context, items []models.RecipeLine) error {
	return s.repo.WriteTable(ctx, recipesTable, encodeRecipeLines(items))
}

// Sales loads the sales journal.
func (s *TableStore) Sales(ctx context.Context) ([]models.SaleEvent, error) {
	rows, err := s.repo.ReadTable(ctx, salesTable)
	if err != nil {
		return nil, err
	}
	return decodeSales(rows), nil
}

// SaveSales replaces the sales journal. The journal is append-only at the
// application level; callers only ever add rows to what they read.
func (s *TableStore) SaveSales(ctx context.Context, items []models.SaleEvent) error {
	return s.repo.WriteTable(ctx, salesTable, encodeSales(items))
}

// Invalidate is a no-op: the uncached store always reads through.
func (s *TableStore) Invalidate(tables ...TableName) {}
