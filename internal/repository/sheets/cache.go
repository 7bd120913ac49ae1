package sheets

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/caserito/atelier/internal/domain/models"
)

// CachedStore memoizes table reads for a bounded staleness window so the
// dashboard does not hammer the spreadsheet API on every page load. Writes
// pass through and drop the memoized copy of the written table; feasibility
// checks computed after a commit must never see pre-commit quantities.
type CachedStore struct {
	inner  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[TableName]cacheEntry
}

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
}

// NewCachedStore wraps the given store with TTL memoization. A zero TTL
// disables caching entirely.
func NewCachedStore(inner Store, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{
		inner:   inner,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[TableName]cacheEntry),
	}
}

// Materials returns the memoized ledger when fresh, reading through otherwise.
func (c *CachedStore) Materials(ctx context.Context) ([]models.Material, error) {
	if cached, ok := c.lookup(TableMaterials); ok {
		return append([]models.Material(nil), cached.([]models.Material)...), nil
	}
	items, err := c.inner.Materials(ctx)
	if err != nil {
		return nil, err
	}
	c.memoize(TableMaterials, items)
	return append([]models.Material(nil), items...), nil
}

// SaveMaterials writes through and invalidates the memoized ledger.
func (c *CachedStore) SaveMaterials(ctx context.Context, items []models.Material) error {
	if err := c.inner.SaveMaterials(ctx, items); err != nil {
		return err
	}
	c.Invalidate(TableMaterials)
	return nil
}

// Products returns the memoized catalog when fresh, reading through otherwise.
func (c *CachedStore) Products(ctx context.Context) ([]models.Product, error) {
	if cached, ok := c.lookup(TableProducts); ok {
		return append([]models.Product(nil), cached.([]models.Product)...), nil
	}
	items, err := c.inner.Products(ctx)
	if err != nil {
		return nil, err
	}
	c.memoize(TableProducts, items)
	return append([]models.Product(nil), items...), nil
}

// SaveProducts writes through and invalidates the memoized catalog.
func (c *CachedStore) SaveProducts(ctx context.Context, items []models.Product) error {
	if err := c.inner.SaveProducts(ctx, items); err != nil {
		return err
	}
	c.Invalidate(TableProducts)
	return nil
}

// RecipeLines returns the memoized recipe book when fresh, reading through otherwise.
func (c *CachedStore) RecipeLines(ctx context.Context) ([]models.RecipeLine, error) {
	if cached, ok := c.lookup(TableRecipes); ok {
		return append([]models.RecipeLine(nil), cached.([]models.RecipeLine)...), nil
	}
	items, err := c.inner.RecipeLines(ctx)
	if err != nil {
		return nil, err
	}
	c.memoize(TableRecipes, items)
	return append([]models.RecipeLine(nil), items...), nil
}

// SaveRecipeLines writes through and invalidates the memoized recipe book.
func (c *CachedStore) SaveRecipeLines(ctx context.Context, items []models.RecipeLine) error {
	if err := c.inner.SaveRecipeLines(ctx, items); err != nil {
		return err
	}
	c.Invalidate(TableRecipes)
	return nil
}

// Sales returns the memoized journal when fresh, reading through otherwise.
func (c *CachedStore) Sales(ctx context.Context) ([]models.SaleEvent, error) {
	if cached, ok := c.lookup(TableSales); ok {
		return append([]models.SaleEvent(nil), cached.([]models.SaleEvent)...), nil
	}
	items, err := c.inner.Sales(ctx)
	if err != nil {
		return nil, err
	}
	c.memoize(TableSales, items)
	return append([]models.SaleEvent(nil), items...), nil
}

// SaveSales writes through and invalidates the memoized journal.
func (c *CachedStore) SaveSales(ctx context.Context, items []models.SaleEvent) error {
	if err := c.inner.SaveSales(ctx, items); err != nil {
		return err
	}
	c.Invalidate(TableSales)
	return nil
}

// Invalidate drops the memoized copies of the named tables, or every table
// when called with no arguments.
func (c *CachedStore) Invalidate(tables ...TableName) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(tables) == 0 {
		c.entries = make(map[TableName]cacheEntry)
		c.logger.Debug("table cache cleared")
		return
	}

	for _, name := range tables {
		delete(c.entries, name)
	}
}

func (c *CachedStore) lookup(name TableName) (interface{}, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *CachedStore) memoize(name TableName, value interface{}) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{value: value, fetchedAt: c.now()}
}
